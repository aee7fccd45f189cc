package topicmgr

// Perm is the permission bit-set of a topic. Flags combine with bitwise OR.
type Perm uint32

const (
	PermInherit  Perm = 1 << 0
	PermWrite    Perm = 1 << 1
	PermRead     Perm = 1 << 2
	PermPriority Perm = 1 << 3
)

// IsReadable reports whether consumers may read from the topic.
func (p Perm) IsReadable() bool { return p&PermRead == PermRead }

// IsWriteable reports whether producers may write to the topic.
func (p Perm) IsWriteable() bool { return p&PermWrite == PermWrite }

// IsInherited reports whether the topic can serve as an auto-create template.
func (p Perm) IsInherited() bool { return p&PermInherit == PermInherit }

// IsPriority reports whether the priority flag is set.
func (p Perm) IsPriority() bool { return p&PermPriority == PermPriority }

// String renders the bits as e.g. "RWX" (X for inherit), with '-' for unset bits.
func (p Perm) String() string {
	b := []byte("---")
	if p.IsReadable() {
		b[0] = 'R'
	}
	if p.IsWriteable() {
		b[1] = 'W'
	}
	if p.IsInherited() {
		b[2] = 'X'
	}
	return string(b)
}

// Topic system flags.
const (
	FlagUnit    uint32 = 1 << 0
	FlagUnitSub uint32 = 1 << 1
)

// BuildSysFlag assembles a topic system flag from the unit bits.
func BuildSysFlag(unit, hasUnitSub bool) uint32 {
	var flag uint32
	if unit {
		flag |= FlagUnit
	}
	if hasUnitSub {
		flag |= FlagUnitSub
	}
	return flag
}
