package errors

import (
	"bytes"
	"fmt"
	"maps"
	"runtime"
	"text/template"
	"time"
)

type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		Code:      c,
		Message:   msg,
		Details:   make(map[string]any),
		Stack:     getStack(),
		Timestamp: time.Now(),
	}
}

// WithPrefix returns a generator of sequential codes such as CONFIG_0001.
func WithPrefix(prefix string) func() Code {
	counter := int64(0)
	return func() Code {
		counter++
		return Code(fmt.Sprintf("%s_%04d", prefix, counter))
	}
}

// Error is a coded error whose Message may reference Details as a text/template.
// Package level values act as sentinels: WithDetail and WithCause return copies,
// and Is matches any copy by code.
type Error struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
	Stack     string         `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *Error) Error() string {
	msg := e.render()
	if msg == "" {
		return ""
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) render() (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = e.Message
		}
	}()

	t, err := template.New("error").Parse(e.Message)
	if err != nil {
		return e.Message
	}

	var output bytes.Buffer
	if err = t.Execute(&output, e.Details); err != nil {
		return e.Message
	}

	return output.String()
}

func (e *Error) WithCause(err error) *Error {
	c := e.clone()
	c.Cause = err
	return c
}

func (e *Error) WithDetail(key string, value any) *Error {
	c := e.clone()
	c.Details[key] = value
	return c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) clone() *Error {
	c := *e
	c.Details = make(map[string]any, len(e.Details)+1)
	maps.Copy(c.Details, e.Details)
	c.Stack = getStack()
	c.Timestamp = time.Now()
	return &c
}

func getStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
