package engine_v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-sweep/internal/types"
)

// FormatOrderSummary renders the operator message for a batch placed on date.
// Both section headers are always present once anything was placed.
func FormatOrderSummary(date time.Time, placed []types.TradeLogEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📆 *Órdenes del día %s*\n\n", date.Format(types.LedgerDateLayout))

	var buys, sells []types.TradeLogEntry

	for _, entry := range placed {
		if entry.Action == types.PurchaseTypeBuy {
			buys = append(buys, entry)
		} else {
			sells = append(sells, entry)
		}
	}

	if len(placed) == 0 {
		b.WriteString("ℹ️ *No se han generado órdenes para hoy.*")

		return b.String()
	}

	b.WriteString("🟢 *COMPRAR*\n")

	for _, entry := range buys {
		fmt.Fprintf(&b, "• %.0f acciones de %s a $%.2f\n", entry.Quantity, entry.Symbol, entry.Price)
	}

	b.WriteString("\n🔴 *VENDER*\n")

	for _, entry := range sells {
		fmt.Fprintf(&b, "• %.2f acciones de %s a $%.2f\n", entry.Quantity, entry.Symbol, entry.Price)
	}

	return b.String()
}

// FormatNoSignal renders the message sent after an empty poll.
func FormatNoSignal(at time.Time, retryIn time.Duration) string {
	return fmt.Sprintf("🕒 %s – Sin señales aún. Reintentando en %s...", at.Format("15:04:05"), humanMinutes(retryIn))
}

func humanMinutes(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "1 minuto"
	}

	return fmt.Sprintf("%d minutos", minutes)
}
