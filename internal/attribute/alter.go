package attribute

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	addPrefix    = "+"
	deletePrefix = "-"
)

// Sentinel reasons carried by *Error.
var (
	ErrMalformedKey   = errors.New("malformed attribute key")
	ErrDuplicateKey   = errors.New("duplicate attribute key")
	ErrCreateOnlyAdd  = errors.New("only add operations are allowed when creating a topic")
	ErrUnsupportedKey = errors.New("unsupported attribute")
	ErrUnchangeable   = errors.New("attribute cannot be changed after creation")
	ErrMissingKey     = errors.New("attempt to delete a nonexistent attribute")
	ErrInvalidValue   = errors.New("invalid attribute value")
)

// Error describes why one requested attribute operation was rejected.
type Error struct {
	Key    string
	Reason error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("attribute %q: %s: %s", e.Key, e.Reason, e.Detail)
	}
	return fmt.Sprintf("attribute %q: %s", e.Key, e.Reason)
}

// Unwrap returns the sentinel reason.
func (e *Error) Unwrap() error { return e.Reason }

// AlterCurrentAttributes applies the requested operations to current and returns the
// attribute map to persist. create selects the rules for a topic that does not exist yet.
// Neither input map is modified. All rejected operations are reported together.
func AlterCurrentAttributes(create bool, schema map[string]Attribute, requested, current map[string]string) (map[string]string, error) {
	var (
		result error
		init   = map[string]string{}
		add    = map[string]string{}
		update = map[string]string{}
		del    = map[string]string{}
		seen   = map[string]struct{}{}
	)

	keys := make([]string, 0, len(requested))
	for k := range requested {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := requested[key]
		realKey, err := realKeyOf(key)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, dup := seen[realKey]; dup {
			result = multierror.Append(result, &Error{Key: realKey, Reason: ErrDuplicateKey})
			continue
		}
		seen[realKey] = struct{}{}

		if create {
			if !strings.HasPrefix(key, addPrefix) {
				result = multierror.Append(result, &Error{Key: realKey, Reason: ErrCreateOnlyAdd})
				continue
			}
			init[realKey] = value
			continue
		}

		switch {
		case strings.HasPrefix(key, addPrefix):
			if _, ok := current[realKey]; ok {
				update[realKey] = value
			} else {
				add[realKey] = value
			}
		case strings.HasPrefix(key, deletePrefix):
			if _, ok := current[realKey]; !ok {
				result = multierror.Append(result, &Error{Key: realKey, Reason: ErrMissingKey})
				continue
			}
			del[realKey] = value
		}
	}

	result = validateAlter(result, schema, init, true, false)
	result = validateAlter(result, schema, add, false, false)
	result = validateAlter(result, schema, update, false, false)
	result = validateAlter(result, schema, del, false, true)

	if result != nil {
		return nil, result
	}

	slog.Debug("Reconciled topic attributes", "add", add, "update", update, "delete", del)

	final := maps.Clone(current)
	if final == nil {
		final = map[string]string{}
	}
	maps.Copy(final, init)
	maps.Copy(final, add)
	maps.Copy(final, update)
	for k := range del {
		delete(final, k)
	}
	return final, nil
}

func validateAlter(result error, schema map[string]Attribute, alter map[string]string, init, isDelete bool) error {
	keys := make([]string, 0, len(alter))
	for k := range alter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		attr, ok := schema[key]
		if !ok {
			result = multierror.Append(result, &Error{Key: key, Reason: ErrUnsupportedKey})
			continue
		}
		if !init && !attr.Changeable() {
			result = multierror.Append(result, &Error{Key: key, Reason: ErrUnchangeable})
			continue
		}
		if isDelete {
			continue
		}
		if err := attr.Verify(alter[key]); err != nil {
			result = multierror.Append(result, &Error{Key: key, Reason: ErrInvalidValue, Detail: err.Error()})
		}
	}
	return result
}

func realKeyOf(key string) (string, error) {
	if len(key) < 2 || (!strings.HasPrefix(key, addPrefix) && !strings.HasPrefix(key, deletePrefix)) {
		return "", &Error{Key: key, Reason: ErrMalformedKey, Detail: "expected +key or -key"}
	}
	realKey := key[1:]
	if strings.ContainsAny(realKey, addPrefix+deletePrefix) {
		return "", &Error{Key: key, Reason: ErrMalformedKey}
	}
	return realKey, nil
}

// ParseKV parses "+a=1,+b=2,-c" into a requested-operations map.
func ParseKV(s string) (map[string]string, error) {
	out := map[string]string{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}

	for _, kv := range strings.Split(s, ",") {
		kv = strings.TrimSpace(kv)
		key, value, hasValue := strings.Cut(kv, "=")
		switch {
		case strings.HasPrefix(key, addPrefix):
			if !hasValue || len(key) < 2 || value == "" {
				return nil, &Error{Key: key, Reason: ErrMalformedKey, Detail: "add operation requires key=value"}
			}
		case strings.HasPrefix(key, deletePrefix):
			if hasValue || len(key) < 2 {
				return nil, &Error{Key: key, Reason: ErrMalformedKey, Detail: "delete operation takes no value"}
			}
		default:
			return nil, &Error{Key: key, Reason: ErrMalformedKey, Detail: "expected +key=value or -key"}
		}
		if _, dup := out[key]; dup {
			return nil, &Error{Key: key, Reason: ErrDuplicateKey}
		}
		out[key] = value
	}
	return out, nil
}

// FormatKV renders stored attributes as "a=1,b=2" in key order.
func FormatKV(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ",")
}
