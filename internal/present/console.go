package present

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

// Console is a line-based Presenter over a reader/writer pair, used by the
// interactive mode.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (c *Console) Notify(kind Kind, title, message string) {
	fmt.Fprintf(c.out, "[%s] %s: %s\n", kind, title, message)
}

func (c *Console) Confirm(title, body, confirmLabel, cancelLabel string) bool {
	fmt.Fprintf(c.out, "%s\n%s\n[y] %s / [n] %s: ", title, body, confirmLabel, cancelLabel)
	answer := strings.ToLower(strings.TrimSpace(c.readLine()))
	return answer == "y" || answer == "yes"
}

func (c *Console) PromptCustomer() (domain.Customer, bool) {
	fmt.Fprint(c.out, "Name (empty to cancel): ")
	name := strings.TrimSpace(c.readLine())
	if name == "" {
		return domain.Customer{}, false
	}

	fmt.Fprint(c.out, "Email: ")
	email := strings.TrimSpace(c.readLine())

	fmt.Fprint(c.out, "Address (optional): ")
	address := strings.TrimSpace(c.readLine())

	return domain.Customer{Name: name, Email: email, Address: address}, true
}

func (c *Console) readLine() string {
	if !c.in.Scan() {
		return ""
	}
	return c.in.Text()
}
