package topicmgr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nfrund/mqbroker/internal/attribute"
)

// Options carries the broker identity and feature flags the Manager consults.
type Options struct {
	BrokerName        string
	BrokerClusterName string
	// StorePathRootDir is the broker's storage root; the snapshot lives under config/.
	StorePathRootDir string

	AutoCreateTopicEnable   bool
	ClusterTopicEnable      bool
	BrokerTopicEnable       bool
	TraceTopicEnable        bool
	MsgTraceTopicName       string
	TimerWheelEnable        bool
	EnableSplitRegistration bool

	DefaultTopicQueueNums uint32
	ReviveQueueNum        uint32

	// CreateLockTimeout overrides CreateLockTimeout when positive.
	CreateLockTimeout time.Duration

	Clock      clock.Clock
	Registerer prometheus.Registerer
}

// Manager owns the topic table, its DataVersion and the creation lock, and implements
// the lookup, update, delete and auto-create operations on top of them.
type Manager struct {
	opts      Options
	registry  *Registry
	validator *Validator
	schema    map[string]attribute.Attribute

	createLock    *timedLock
	createTimeout time.Duration
	persistMu     sync.Mutex

	store     StateVersioner
	snapshots Snapshotter
	registrar Registrar
	clock     clock.Clock
	metrics   *metrics

	autoCreate atomic.Bool
}

// NewManager creates a Manager. store, snapshots and registrar may be nil, in which
// case the state version is zero, nothing is persisted and nothing is propagated.
func NewManager(opts Options, store StateVersioner, snapshots Snapshotter, registrar Registrar) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.DefaultTopicQueueNums == 0 {
		opts.DefaultTopicQueueNums = defaultAutoCreateQueueNum
	}
	if opts.ReviveQueueNum == 0 {
		opts.ReviveQueueNum = defaultReviveQueueNums
	}
	if opts.MsgTraceTopicName == "" {
		opts.MsgTraceTopicName = DefaultTraceTopic
	}
	timeout := CreateLockTimeout
	if opts.CreateLockTimeout > 0 {
		timeout = opts.CreateLockTimeout
	}

	m := &Manager{
		opts:          opts,
		registry:      NewRegistry(),
		validator:     NewValidator(),
		schema:        attribute.TopicAttributes(),
		createLock:    newTimedLock(),
		createTimeout: timeout,
		store:         store,
		snapshots:     snapshots,
		registrar:     registrar,
		clock:         opts.Clock,
		metrics:       newMetrics(opts.Registerer),
	}
	m.autoCreate.Store(opts.AutoCreateTopicEnable)
	return m
}

// Lookup returns a copy of the config of topic.
func (m *Manager) Lookup(topic string) (TopicConfig, bool) {
	return m.registry.Get(topic)
}

// Contains reports whether topic exists.
func (m *Manager) Contains(topic string) bool {
	return m.registry.Contains(topic)
}

// IsOrderTopic reports whether topic exists and is ordered.
func (m *Manager) IsOrderTopic(topic string) bool {
	cfg, ok := m.registry.Get(topic)
	return ok && cfg.Order
}

// Put inserts or replaces cfg without advancing the version or persisting.
// It returns the previous value, if any.
func (m *Manager) Put(cfg TopicConfig) (TopicConfig, bool) {
	old, ok := m.registry.Put(cfg)
	m.observeCount()
	return old, ok
}

// Remove deletes topic without advancing the version or persisting.
func (m *Manager) Remove(topic string) (TopicConfig, bool) {
	old, ok := m.registry.Remove(topic)
	m.observeCount()
	return old, ok
}

// Table returns a deep copy of the topic table.
func (m *Manager) Table() map[string]TopicConfig {
	table, _ := m.registry.Snapshot()
	return table
}

// Names returns the sorted topic names.
func (m *Manager) Names() []string {
	return m.registry.Names()
}

// DataVersion returns the current version of the table.
func (m *Manager) DataVersion() DataVersion {
	return m.registry.Version()
}

// Validator returns the topic name validator and system topic set.
func (m *Manager) Validator() *Validator {
	return m.validator
}

// SetAutoCreateTopicEnable toggles whether the well-known auto-create template may be inherited.
func (m *Manager) SetAutoCreateTopicEnable(enable bool) {
	if m.autoCreate.Swap(enable) != enable {
		slog.Info("Auto create topic setting changed", "enabled", enable)
	}
}

// AutoCreateTopicEnable reports the current auto-create setting.
func (m *Manager) AutoCreateTopicEnable() bool {
	return m.autoCreate.Load()
}

// ConfigFilePath returns where the snapshot is persisted.
func (m *Manager) ConfigFilePath() string {
	return filepath.Join(m.opts.StorePathRootDir, "config", "topics.json")
}

// Update reconciles the requested attributes of cfg against the stored ones, replaces
// the table entry, advances the version and persists. Attribute operations that fail
// validation reject the whole update and leave the table untouched. Once the entry is
// replaced the update runs to completion even if ctx is cancelled; a persist failure is
// returned after the change has been registered.
func (m *Manager) Update(ctx context.Context, cfg TopicConfig) error {
	if err := m.validator.ValidateName(cfg.TopicName); err != nil {
		return &TopicError{Type: ErrorInvalidName, Topic: cfg.TopicName, Message: "invalid topic name", Cause: err}
	}

	change, err := m.registry.Modify(cfg.TopicName, func(current TopicConfig, exists bool) (TopicConfig, error) {
		final, err := attribute.AlterCurrentAttributes(!exists, m.schema, cfg.Attributes, current.Attributes)
		if err != nil {
			return TopicConfig{}, err
		}
		next := cfg.Clone()
		next.Attributes = final
		return next, nil
	}, m.stateVersion(), m.clock.Now())
	if err != nil {
		slog.Error("Failed to alter topic attributes", "topic", cfg.TopicName, "error", err)
		return &TopicError{Type: ErrorValidationFailed, Topic: cfg.TopicName, Message: "attribute validation failed", Cause: err}
	}

	if change.Replaced {
		slog.Info("Update topic config", "old", change.Old, "new", change.New)
	} else {
		slog.Info("Create new topic", "config", change.New)
	}
	m.metrics.mutation("update")
	m.observeCount()

	err = m.Persist(context.WithoutCancel(ctx))
	m.register(change.New, change.Version)
	return err
}

// UpdateList applies Update to every config, stopping at the first error.
func (m *Manager) UpdateList(ctx context.Context, cfgs []TopicConfig) error {
	for _, cfg := range cfgs {
		if err := m.Update(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes topic, advances the version and persists. Deleting a topic that
// does not exist is logged and leaves both table and version unchanged.
func (m *Manager) Delete(ctx context.Context, topic string) error {
	old, ok := m.registry.RemoveAndAdvance(topic, m.stateVersion(), m.clock.Now())
	if !ok {
		slog.Warn("Delete topic config failed, topic does not exist", "topic", topic)
		return nil
	}
	slog.Info("Delete topic config OK", "config", old)
	m.metrics.mutation("delete")
	m.observeCount()

	return m.Persist(context.WithoutCancel(ctx))
}

// CreateOnSend returns the config of topic, creating it from template when it does not
// exist yet. A nil config with a nil error means no topic is available: the template is
// missing or not inheritable, or the creation lock could not be acquired in time. The
// caller may retry on its next send. Once the topic is inserted, cancelling ctx no longer
// interrupts the call. A persist failure is returned together with the created config,
// which is in the table and registered regardless.
func (m *Manager) CreateOnSend(ctx context.Context, topic, template, remoteAddr string, queueNums int32, sysFlag uint32) (*TopicConfig, error) {
	if cfg, ok := m.registry.Get(topic); ok {
		m.metrics.autoCreate("exists")
		return &cfg, nil
	}

	if !m.createLock.TryLockFor(ctx, m.createTimeout) {
		slog.Warn("Create topic lock timed out", "topic", topic, "producer", remoteAddr)
		m.metrics.autoCreate("lock_timeout")
		return nil, nil
	}
	cfg, created, dv, err := m.createFromTemplate(ctx, topic, template, remoteAddr, queueNums, sysFlag)
	m.createLock.Unlock()

	if created {
		m.register(*cfg, dv)
	}
	return cfg, err
}

func (m *Manager) createFromTemplate(ctx context.Context, topic, template, remoteAddr string, queueNums int32, sysFlag uint32) (*TopicConfig, bool, DataVersion, error) {
	if cfg, ok := m.registry.Get(topic); ok {
		m.metrics.autoCreate("exists")
		return &cfg, false, DataVersion{}, nil
	}

	tmpl, ok := m.registry.Get(template)
	if !ok {
		slog.Warn("Create new topic failed, default topic does not exist", "topic", topic, "defaultTopic", template, "producer", remoteAddr)
		m.metrics.autoCreate("template_missing")
		return nil, false, DataVersion{}, nil
	}

	if template == AutoCreateTopicKeyTopic && !m.autoCreate.Load() {
		tmpl.Perm = PermRead | PermWrite
	}

	if !tmpl.Perm.IsInherited() {
		slog.Warn("Create new topic failed, default topic has no inherit perm",
			"topic", topic, "defaultTopic", template, "perm", tmpl.Perm.String(), "producer", remoteAddr)
		m.metrics.autoCreate("denied")
		return nil, false, DataVersion{}, nil
	}

	queues := min(int64(queueNums), int64(tmpl.WriteQueueNums))
	if queues < 0 {
		queues = 0
	}

	cfg := NewTopicConfig(topic)
	cfg.ReadQueueNums = uint32(queues)
	cfg.WriteQueueNums = uint32(queues)
	cfg.Perm = tmpl.Perm &^ PermInherit
	cfg.TopicSysFlag = sysFlag
	cfg.TopicFilterType = tmpl.TopicFilterType

	stored, created, dv, err := m.insertAndPersist(ctx, cfg)
	if created {
		slog.Info("Create new topic by default topic", "defaultTopic", template, "config", stored, "producer", remoteAddr)
	}
	return &stored, created, dv, err
}

// CreateOnSendBack returns the config of topic, creating it with the given permission and
// order flag when it does not exist. An existing topic whose order flag differs is corrected
// through Update. The nil-config contract matches CreateOnSend.
func (m *Manager) CreateOnSendBack(ctx context.Context, topic string, queueNums int32, perm Perm, order bool, sysFlag uint32) (*TopicConfig, error) {
	if cfg, ok := m.registry.Get(topic); ok {
		if cfg.Order != order {
			fix := cfg.Clone()
			fix.Order = order
			fix.Attributes = nil
			cfg.Order = order
			if err := m.Update(ctx, fix); err != nil {
				return &cfg, err
			}
		}
		return &cfg, nil
	}

	cfg := NewTopicConfig(topic)
	cfg.ReadQueueNums = clampQueues(queueNums)
	cfg.WriteQueueNums = clampQueues(queueNums)
	cfg.Perm = perm
	cfg.TopicSysFlag = sysFlag
	cfg.Order = order

	return m.createFixed(ctx, cfg)
}

// CreateTransactionCheckTopic creates the transaction check-max-time system topic once.
func (m *Manager) CreateTransactionCheckTopic(ctx context.Context, queueNums int32, perm Perm) (*TopicConfig, error) {
	if cfg, ok := m.registry.Get(TransCheckMaxTimeTopic); ok {
		return &cfg, nil
	}

	cfg := NewTopicConfig(TransCheckMaxTimeTopic)
	cfg.ReadQueueNums = clampQueues(queueNums)
	cfg.WriteQueueNums = clampQueues(queueNums)
	cfg.Perm = perm
	cfg.TopicSysFlag = 0

	return m.createFixed(ctx, cfg)
}

// createFixed runs the locked part of the auto-create protocol for a config that does
// not depend on a template.
func (m *Manager) createFixed(ctx context.Context, cfg TopicConfig) (*TopicConfig, error) {
	if !m.createLock.TryLockFor(ctx, m.createTimeout) {
		slog.Warn("Create topic lock timed out", "topic", cfg.TopicName)
		m.metrics.autoCreate("lock_timeout")
		return nil, nil
	}

	existing, ok := m.registry.Get(cfg.TopicName)
	if ok {
		m.createLock.Unlock()
		m.metrics.autoCreate("exists")
		return &existing, nil
	}

	stored, created, dv, err := m.insertAndPersist(ctx, cfg)
	m.createLock.Unlock()

	if created {
		slog.Info("Create new topic", "config", stored)
		m.register(stored, dv)
	}
	return &stored, err
}

// insertAndPersist inserts cfg unless the topic appeared since the caller checked, in
// which case the existing entry is returned untouched. A successful insert is persisted
// with a context that ignores cancellation.
func (m *Manager) insertAndPersist(ctx context.Context, cfg TopicConfig) (TopicConfig, bool, DataVersion, error) {
	stored, inserted, dv := m.registry.InsertIfAbsentAndAdvance(cfg, m.stateVersion(), m.clock.Now())
	if !inserted {
		m.metrics.autoCreate("exists")
		return stored, false, dv, nil
	}
	m.metrics.mutation("create")
	m.metrics.autoCreate("created")
	m.observeCount()
	return stored, true, dv, m.Persist(context.WithoutCancel(ctx))
}

func (m *Manager) register(cfg TopicConfig, dv DataVersion) {
	if m.registrar == nil {
		return
	}
	m.registrar.Register(cfg.Clone(), dv)
}

func (m *Manager) observeCount() {
	m.metrics.topics.Set(float64(m.registry.Count()))
}

func (m *Manager) stateVersion() int64 {
	if m.store == nil {
		return 0
	}
	return m.store.StateMachineVersion()
}

// SerializeWrapper returns the given table stamped with the current version, as sent to
// the naming layer. With split registration enabled the version is advanced first so
// every batch carries a distinct version.
func (m *Manager) SerializeWrapper(table map[string]TopicConfig) SerializeWrapper {
	var dv DataVersion
	if m.opts.EnableSplitRegistration {
		dv = m.registry.Advance(m.stateVersion(), m.clock.Now())
	} else {
		dv = m.registry.Version()
	}
	return SerializeWrapper{TopicConfigTable: table, DataVersion: dv}
}

// Stats returns a summary of the table for the admin surface.
func (m *Manager) Stats() ManagerStats {
	names := m.registry.Names()
	system := 0
	for _, name := range names {
		if m.validator.IsSystemTopic(name) {
			system++
		}
	}
	return ManagerStats{
		TotalTopics:  len(names),
		SystemTopics: system,
		DataVersion:  m.registry.Version(),
		AutoCreate:   m.autoCreate.Load(),
	}
}

// ManagerStats summarizes the topic table.
type ManagerStats struct {
	TotalTopics  int         `json:"totalTopics"`
	SystemTopics int         `json:"systemTopics"`
	DataVersion  DataVersion `json:"dataVersion"`
	AutoCreate   bool        `json:"autoCreateTopicEnable"`
}

func clampQueues(n int32) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}

func (m *Manager) String() string {
	return fmt.Sprintf("topicmgr.Manager{broker=%s topics=%d version=%s}", m.opts.BrokerName, m.registry.Count(), m.registry.Version())
}
