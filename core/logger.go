package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "SPENDAPI_LOG"

// InitLogger sets up apex with a CustomHandler writing to stderr. The level comes
// from the SPENDAPI_LOG env variable, then level, then defaults to info.
func InitLogger(level string) error {
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = env
	}
	if level == "" {
		level = "info"
	}

	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}

	log.SetHandler(NewCustomHandler(os.Stderr))
	log.SetLevel(parsed)
	return nil
}

// CustomHandler formats entries as a single line: timestamp, level initial,
// message, then the sorted fields as key=value pairs.
type CustomHandler struct {
	mu     sync.Mutex
	writer io.Writer
	now    func() time.Time
}

// NewCustomHandler returns a CustomHandler writing to w.
func NewCustomHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{writer: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var line strings.Builder
	fmt.Fprintf(&line, "%s %.1s %s", timestamp, level, e.Message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&line, " %s=%v", name, e.Fields.Get(name))
	}
	line.WriteByte('\n')

	_, err := io.WriteString(h.writer, line.String())
	return err
}
