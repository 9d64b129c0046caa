package provisioning

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// LogrObserver implements Observer on top of a logr.Logger.
type LogrObserver struct {
	logger logr.Logger
	fields map[string]string
}

// NewLogrObserver wraps an existing logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{logger: logger, fields: make(map[string]string)}
}

// NewJSONObserver creates an observer emitting one JSON object per line to w.
func NewJSONObserver(w io.Writer) *LogrObserver {
	logger := funcr.NewJSON(func(obj string) {
		_, _ = fmt.Fprintln(w, obj)
	}, funcr.Options{LogTimestamp: true})
	return NewLogrObserver(logger)
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, o.keysAndValues(event.Fields)...)

	if event.Type == EventPhaseFailed || event.Type == EventResourceFailed {
		o.logger.Error(nil, event.Message, kv...)
		return
	}
	o.logger.Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *LogrObserver) Progress(phase string, current, total int) {
	kv := append([]interface{}{"phase", phase, "current", current, "total", total}, o.keysAndValues(nil)...)
	o.logger.V(1).Info("progress", kv...)
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	return &LogrObserver{
		logger: o.logger,
		fields: mergeFields(fields, o.fields),
	}
}

func (o *LogrObserver) keysAndValues(extra map[string]string) []interface{} {
	merged := mergeFields(extra, o.fields)
	kv := make([]interface{}, 0, 2*len(merged))
	for _, k := range sortedKeys(merged) {
		kv = append(kv, k, merged[k])
	}
	return kv
}
