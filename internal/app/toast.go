// internal/app/toast.go
package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Toaster prints transient one-line notifications to the terminal. It is the
// lobby.Notifier implementation for the interactive client.
type Toaster struct {
	mu     sync.Mutex
	out    io.Writer
	logger *logrus.Logger
}

// NewToaster returns a Toaster writing to out.
func NewToaster(out io.Writer, logger *logrus.Logger) *Toaster {
	return &Toaster{out: out, logger: logger}
}

// Toast prints a single transient message.
func (t *Toaster) Toast(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n*** %s ***\n", msg)
}

func (t *Toaster) MemberJoined(name string, newCount, discountPercent int) {
	t.logger.WithFields(logrus.Fields{"member": name, "count": newCount}).Info("member joined")
	t.Toast(fmt.Sprintf("%s ble med i gruppen! Dere er nå %d – %d%% rabatt", name, newCount, discountPercent))
}

func (t *Toaster) GroupLocked() {
	t.logger.Info("group locked")
	t.Toast("Gruppen er låst – alle er klare!")
}

func (t *Toaster) GroupExpired() {
	t.logger.Info("group expired")
	t.Toast("Gruppen har utløpt. Start en ny gruppe.")
}
