package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits a structured JSON log line with common HTTP fields.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"ts":"error","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}

// LogError emits a structured error line. Internal details stay server-side;
// HTTP responses only ever carry generic messages.
func LogError(msg string, err error, fields map[string]any) {
	entry := map[string]any{
		"level": "error",
		"msg":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}
	LogRequest(entry)
}
