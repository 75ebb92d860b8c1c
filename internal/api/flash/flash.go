// Package flash carries one-shot user messages across a redirect in a
// short-lived cookie.
package flash

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	cookieName = "s2cr_flash"
	secureKey  = "flash.secure"
)

// Level selects how a message is styled.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Message is a single flash entry.
type Message struct {
	Level Level
	Text  string
}

// Secure marks flash cookies Secure for every request it wraps. TLS requests
// get the flag regardless.
func Secure(on bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(secureKey, on)
			return next(c)
		}
	}
}

func secure(c echo.Context) bool {
	on, _ := c.Get(secureKey).(bool)
	return on || c.IsTLS()
}

// Set queues msg for the next rendered page, appending to any pending messages.
func Set(c echo.Context, level Level, text string) {
	msgs := append(pending(c), Message{Level: level, Text: text})
	c.Set(cookieName, msgs)
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    encode(msgs),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages and clears the cookie.
func Pop(c echo.Context) []Message {
	msgs := pending(c)
	if len(msgs) == 0 {
		return nil
	}
	c.Set(cookieName, []Message(nil))
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure(c),
		SameSite: http.SameSiteLaxMode,
	})
	return msgs
}

// pending prefers messages set during this request over the incoming cookie.
func pending(c echo.Context) []Message {
	if v := c.Get(cookieName); v != nil {
		msgs, _ := v.([]Message)
		return msgs
	}
	ck, err := c.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	return decode(ck.Value)
}

func encode(msgs []Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = string(m.Level) + "\t" + strings.ReplaceAll(m.Text, "\n", " ")
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(lines, "\n")))
}

func decode(v string) []Message {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var msgs []Message
	for _, line := range strings.Split(string(raw), "\n") {
		level, text, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		switch Level(level) {
		case Success, Info, Warning, Error:
			msgs = append(msgs, Message{Level: Level(level), Text: text})
		}
	}
	return msgs
}
