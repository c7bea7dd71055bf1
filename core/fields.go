package core

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// AccessFields builds the fields of a request log entry.
func AccessFields(options ...func(fields log.Fields)) log.Fields {
	fields := log.Fields{}
	for _, option := range options {
		option(fields)
	}
	return fields
}

// LogWithRequestID is an option to associate a log entry with a request ID.
func LogWithRequestID(id uuid.UUID) func(fields log.Fields) {
	return func(fields log.Fields) {
		fields["request_id"] = id.String()
	}
}

// LogWithRequest is an option to add the method and path of a request.
func LogWithRequest(req *http.Request) func(fields log.Fields) {
	return func(fields log.Fields) {
		fields["method"] = req.Method
		fields["path"] = req.URL.Path
	}
}

// LogWithStatus is an option to add the response status and the time taken to produce it.
func LogWithStatus(status int, elapsed time.Duration) func(fields log.Fields) {
	return func(fields log.Fields) {
		fields["status"] = status
		fields["duration"] = elapsed.Round(time.Microsecond).String()
	}
}
