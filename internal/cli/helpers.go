package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andy/invoicer/internal/domain"
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// parseDate parses a date string in various formats
func parseDate(s string) (domain.Date, error) {
	switch s {
	case "":
		return domain.Date{}, nil
	case "today":
		return domain.NewDate(time.Now()), nil
	case "yesterday":
		return domain.NewDate(time.Now().AddDate(0, 0, -1)), nil
	default:
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.Date{}, fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'yesterday'")
		}
		return d, nil
	}
}

// itemSpec is a line item as given on the command line
type itemSpec struct {
	name  string
	price string
	qty   string
}

// parseItem splits "name:price[:qty]". Price and qty are kept raw so that the
// ledger applies its own numeric parsing.
func parseItem(s string) itemSpec {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return itemSpec{name: parts[0], price: "0", qty: "1"}
	case 2:
		return itemSpec{name: parts[0], price: parts[1], qty: "1"}
	default:
		n := len(parts)
		return itemSpec{
			name:  strings.Join(parts[:n-2], ":"),
			price: parts[n-2],
			qty:   parts[n-1],
		}
	}
}

func clientLabel(name string) string {
	if name == "" {
		return "Unknown Client"
	}
	return name
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
