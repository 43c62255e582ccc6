package cli

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/model"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and seed orders",
		Long:  "List orders directly from the store, or seed sample data for development.",
	}

	cmd.AddCommand(newOrderListCmd())
	cmd.AddCommand(newOrderSeedCmd())

	return cmd
}

// ---------- order list ----------

func newOrderListCmd() *cobra.Command {
	var (
		limit      int
		offset     int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderList(limit, offset, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of orders to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of orders to skip")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runOrderList(limit, offset int, jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	orders, err := st.ListOrders(cmd_ctx(), limit, offset)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	}

	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return nil
	}

	fmt.Printf("%-16s %-24s %12s %-12s %-20s\n", "ORDER NO", "CUSTOMER", "TOTAL", "STATUS", "CREATED")
	fmt.Printf("%-16s %-24s %12s %-12s %-20s\n", "--------", "--------", "-----", "------", "-------")
	for _, o := range orders {
		fmt.Printf("%-16s %-24s %12s %-12s %-20s\n",
			o.OrderNo, o.CustomerName,
			fmt.Sprintf("%.2f", float64(o.TotalCents)/100),
			o.Status, o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// ---------- order seed ----------

func newOrderSeedCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample orders for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderSeed(count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "Number of sample orders to create")

	return cmd
}

var (
	seedCustomers = []string{
		"Acme Corp", "Globex", "Initech", "Umbrella Ltd", "Stark Industries",
		"Wayne Enterprises", "Tyrell Corp", "Cyberdyne Systems",
	}
	seedStatuses = []string{"pending", "paid", "shipped", "delivered", "cancelled"}
)

func runOrderSeed(count int) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	prefix := time.Now().Format("20060102150405")
	created := 0
	for i := 0; i < count; i++ {
		order := &model.Order{
			OrderNo:      fmt.Sprintf("ORD-%s-%04d", prefix, i+1),
			CustomerName: seedCustomers[rand.Intn(len(seedCustomers))],
			TotalCents:   int64(rand.Intn(99000) + 1000),
			Status:       seedStatuses[rand.Intn(len(seedStatuses))],
		}
		if err := st.CreateOrder(cmd_ctx(), order); err != nil {
			return fmt.Errorf("seed order %s: %w", order.OrderNo, err)
		}
		created++
	}

	fmt.Printf("Seeded %d orders.\n", created)
	return nil
}
