package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/freydema/spacetrader-agent/internal/model"
)

// FormatContractAccepted formats a contract acceptance announcement.
func FormatContractAccepted(c *model.Contract, credits int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📝 <b>Contract accepted</b> | %s\n\n", c.ID))
	b.WriteString(fmt.Sprintf("Type: %s | Faction: %s\n", c.Type, c.FactionSymbol))
	b.WriteString(fmt.Sprintf("Payment: %d on accept + %d on fulfill\n",
		c.Terms.PaymentOnAccepted, c.Terms.PaymentOnFulfilled))
	for i, d := range c.Terms.Deliveries {
		b.WriteString(fmt.Sprintf("Delivery %d: %d %s to %s\n",
			i+1, d.UnitsRequired, d.TradeSymbol, d.DestinationSymbol))
	}
	hours := time.Until(c.Terms.Deadline).Hours()
	b.WriteString(fmt.Sprintf("Deadline: %s (%.1fh remaining)\n",
		c.Terms.Deadline.Format("2006-01-02 15:04"), hours))
	b.WriteString(fmt.Sprintf("Credits: %d", credits))
	return b.String()
}

// FormatContractFulfilled formats a contract completion announcement.
func FormatContractFulfilled(c *model.Contract, profit, credits int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ <b>Contract fulfilled</b> | %s\n\n", c.ID))
	b.WriteString(fmt.Sprintf("Total payment: %d\n", c.Terms.TotalPayment()))
	b.WriteString(fmt.Sprintf("Profit: %+d\n", profit))
	b.WriteString(fmt.Sprintf("Credits: %d", credits))
	return b.String()
}

// FormatShipPurchase formats a fleet expansion announcement.
func FormatShipPurchase(shipSymbol, shipType string, price int64, cargoCapacity int, credits int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 <b>Ship purchased</b> | %s\n\n", shipSymbol))
	b.WriteString(fmt.Sprintf("Type: %s\n", shipType))
	b.WriteString(fmt.Sprintf("Cargo capacity: %d units\n", cargoCapacity))
	b.WriteString(fmt.Sprintf("Price: %d credits\n", price))
	b.WriteString(fmt.Sprintf("Credits: %d", credits))
	return b.String()
}

// FormatPerformanceReport formats a periodic performance summary.
func FormatPerformanceReport(m *model.PerformanceMetrics, credits int64, fleetSize, cargoCapacity int, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Agent report</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Contracts completed: %d\n", m.ContractsCompleted))
	b.WriteString(fmt.Sprintf("Contracts failed: %d\n", m.ContractsFailed))
	b.WriteString(fmt.Sprintf("Credits earned: %d | balance: %d\n", m.CreditsEarned, credits))
	b.WriteString(fmt.Sprintf("Fleet: %d ships, %d cargo units\n", fleetSize, cargoCapacity))
	if m.ContractsCompleted > 0 {
		b.WriteString(fmt.Sprintf("Avg completion: %s\n", m.AverageCompletionTime.Round(time.Second)))
	}
	b.WriteString(fmt.Sprintf("Throughput: %.2f contracts/hour\n", m.Efficiency(elapsed)))
	b.WriteString(fmt.Sprintf("Errors: %d | uptime: %s", m.Errors, elapsed.Round(time.Second)))
	return b.String()
}
