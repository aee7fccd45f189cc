package topicmgr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
)

// SerializeWrapper is the snapshot wire format: the full table plus its version.
type SerializeWrapper struct {
	TopicConfigTable map[string]TopicConfig `json:"topicConfigTable"`
	DataVersion      DataVersion            `json:"dataVersion"`
}

// Encode serializes the table and version, indented when pretty is set.
func (m *Manager) Encode(pretty bool) ([]byte, error) {
	table, dv := m.registry.Snapshot()
	wrapper := SerializeWrapper{TopicConfigTable: table, DataVersion: dv}
	if pretty {
		return json.MarshalIndent(wrapper, "", "  ")
	}
	return json.Marshal(wrapper)
}

// Decode merges an encoded snapshot into the table and assigns its version.
// Empty input is a no-op so a first start can bootstrap from nothing.
func (m *Manager) Decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var wrapper SerializeWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return &TopicError{Type: ErrorDecodeFailed, Message: "failed to decode topic config snapshot", Cause: err}
	}

	m.registry.Merge(wrapper.TopicConfigTable, wrapper.DataVersion)
	m.observeCount()
	return nil
}

// Persist writes the current snapshot. Writes are serialized and each one encodes the
// table after taking the write slot, so a later snapshot never lands before an earlier one.
func (m *Manager) Persist(ctx context.Context) error {
	if m.snapshots == nil {
		return nil
	}

	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	data, err := m.Encode(true)
	if err != nil {
		return &TopicError{Type: ErrorPersistFailed, Message: "failed to encode topic config", Cause: err}
	}

	path := m.ConfigFilePath()
	if _, err := m.snapshots.Save(ctx, path, bytes.NewReader(data)); err != nil {
		slog.Error("Failed to persist topic config", "path", path, "error", err)
		return &TopicError{Type: ErrorPersistFailed, Message: "failed to persist topic config", Cause: err}
	}
	return nil
}

// Load reads the persisted snapshot, if any, and merges it into the table.
// It reports whether a snapshot was found.
func (m *Manager) Load(ctx context.Context) (bool, error) {
	if m.snapshots == nil {
		return false, nil
	}

	path := m.ConfigFilePath()
	data, err := m.snapshots.Load(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("No topic config snapshot found", "path", path)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := m.Decode(data); err != nil {
		return false, err
	}
	slog.Info("Loaded topic config snapshot", "path", path, "topics", m.registry.Count(), "dataVersion", m.registry.Version())
	return true, nil
}
