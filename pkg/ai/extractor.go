package ai

import (
	"encoding/json"
	"strings"

	"github.com/dailygrind-app/dailygrind-backend/pkg/communication"
	"github.com/dailygrind-app/dailygrind-backend/pkg/logger"
)

// TaskDraft is a task as the model describes it, before any defaults apply
type TaskDraft struct {
	Title    string
	Time     string
	Duration string
	Category string
	Priority string
	Icon     string
}

type actionEnvelope struct {
	Action   string          `json:"action"`
	Payload  json.RawMessage `json:"payload"`
	Response string          `json:"response"`
}

type payloadEntry struct {
	Task     string `json:"task"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Icon     string `json:"icon"`
}

// Extraction is the result of scanning a model reply
type Extraction struct {
	// Reply is the text with every recognized envelope cut out. When an
	// envelope carries a response field that replaces the reply entirely.
	Reply  string
	Drafts []TaskDraft
	// ResponseProvided reports whether any envelope carried a response field
	ResponseProvided bool
}

// ExtractTasks scans free form model output for createTask envelopes.
// Fragments that look like JSON but fail to parse are logged and dropped,
// the surrounding text still comes through.
func ExtractTasks(text string, log logger.Interface) *Extraction {
	extraction := Extraction{}

	var kept strings.Builder
	rest := text

	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			kept.WriteString(rest)
			break
		}

		end := matchBraces(rest, start)
		if end < 0 {
			// a stray unmatched brace, keep it and scan on. A valid
			// envelope may still follow.
			kept.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}

		fragment := rest[start : end+1]

		envelope := actionEnvelope{}
		err := json.Unmarshal([]byte(fragment), &envelope)
		if err != nil {
			log.Warning("dropping a model fragment that does not parse", &communication.ParseError{Fragment: fragment, Err: err})
			kept.WriteString(rest[:end+1])
			rest = rest[end+1:]
			continue
		}
		if envelope.Action != "createTask" {
			kept.WriteString(rest[:end+1])
			rest = rest[end+1:]
			continue
		}

		kept.WriteString(rest[:start])
		rest = rest[end+1:]

		drafts, err := decodePayload(envelope.Payload)
		if err != nil {
			log.Warning("dropping an unreadable createTask payload", &communication.ParseError{Fragment: fragment, Err: err})
		}
		extraction.Drafts = append(extraction.Drafts, drafts...)

		if envelope.Response != "" {
			extraction.Reply = envelope.Response
			extraction.ResponseProvided = true
		}
	}

	if extraction.Reply == "" {
		extraction.Reply = strings.TrimSpace(kept.String())
	}

	return &extraction
}

// matchBraces finds the index of the brace closing the one at start,
// skipping over string literals. Returns -1 on unbalanced input.
func matchBraces(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}

	return -1
}

func decodePayload(payload json.RawMessage) ([]TaskDraft, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	var entries []payloadEntry

	single := payloadEntry{}
	if err := json.Unmarshal(payload, &single); err == nil {
		entries = []payloadEntry{single}
	} else if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}

	var drafts []TaskDraft
	for _, entry := range entries {
		title := entry.Task
		if title == "" {
			title = entry.Title
		}
		if title == "" {
			continue
		}

		drafts = append(drafts, TaskDraft{
			Title:    title,
			Time:     entry.Time,
			Duration: entry.Duration,
			Category: entry.Category,
			Priority: entry.Priority,
			Icon:     entry.Icon,
		})
	}

	return drafts, nil
}
