package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path, oldest
// first. maxLines <= 0 returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var all []string
	if maxLines <= 0 {
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	// Ring buffer: next is where the following line lands, which is also the
	// oldest line once the ring has wrapped.
	ring := make([]string, maxLines)
	next, count := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count = min(count+1, maxLines)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	start := 0
	if count == maxLines {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%maxLines]
	}
	return lines, nil
}

// Entry is one decoded zap JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Error   string
	Fields  map[string]string
	Raw     string
}

var reservedKeys = map[string]bool{
	"timestamp":  true,
	"level":      true,
	"logger":     true,
	"msg":        true,
	"caller":     true,
	"stacktrace": true,
	"error":      true,
}

// ParseEntry decodes a zap JSON line. Lines that are not JSON objects come
// back with only Raw and Message set and ok false.
func ParseEntry(line string) (entry Entry, ok bool) {
	entry = Entry{Raw: line, Message: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return entry, false
	}

	entry.Level = strings.ToUpper(stringField(obj, "level"))
	entry.Logger = stringField(obj, "logger")
	entry.Message = stringField(obj, "msg")
	entry.Error = stringField(obj, "error")
	if ts := stringField(obj, "timestamp"); ts != "" {
		for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, ts); err == nil {
				entry.Time = parsed
				break
			}
		}
	}
	for key, value := range obj {
		if reservedKeys[key] {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]string)
		}
		entry.Fields[key] = fmt.Sprint(value)
	}
	return entry, true
}

// ReadEntries reads the last maxLines of path and decodes each one.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, _ := ParseEntry(line)
		entries = append(entries, entry)
	}
	return entries, nil
}

// Format renders an entry on one line:
//
//	15:04:05 INFO  [client] request complete method=GET status=200
func (e Entry) Format() string {
	if e.Level == "" && e.Time.IsZero() {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", e.Level)
	if e.Logger != "" {
		b.WriteString(" [")
		b.WriteString(e.Logger)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for _, key := range e.FieldKeys() {
		fmt.Fprintf(&b, " %s=%s", key, e.Fields[key])
	}
	if e.Error != "" {
		b.WriteString(" error=")
		b.WriteString(e.Error)
	}
	return b.String()
}

// FieldKeys returns the entry's extra field names, sorted.
func (e Entry) FieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}
