// Package domain defines the core entities and ports for drover.
package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// InstallType selects the installation strategy applied to a repository
// after it has been cloned or updated.
type InstallType string

// The closed set of installation strategies.
const (
	// InstallTypeNone performs no installation step at all.
	InstallTypeNone InstallType = "NONE"

	// InstallTypeShell runs the install script found in the execution
	// directory of the clone.
	InstallTypeShell InstallType = "SHELL"

	// InstallTypeStow farms symlinks from the execution directory into
	// the configured target directory, mirroring relative paths.
	InstallTypeStow InstallType = "STOW"
)

// InstallScriptName is the script the SHELL strategy expects at the
// execution directory.
const InstallScriptName = "install.sh"

// InstallTypes returns every valid installation type, for CLI help and
// validation messages.
func InstallTypes() []InstallType {
	return []InstallType{InstallTypeNone, InstallTypeShell, InstallTypeStow}
}

// ParseInstallType converts a user-supplied string into an InstallType.
// Matching is case-insensitive. Returns ErrInvalidConfiguration for
// anything outside the known set.
func ParseInstallType(s string) (InstallType, error) {
	t := InstallType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown installation type %q (expected NONE, SHELL or STOW)", ErrInvalidConfiguration, s)
	}
	return t, nil
}

// Valid reports whether t is one of the known installation types.
func (t InstallType) Valid() bool {
	switch t {
	case InstallTypeNone, InstallTypeShell, InstallTypeStow:
		return true
	}
	return false
}

// RepositoryRecord describes one managed repository: where it comes from,
// where it lives locally, and how it is installed. Records are keyed by
// URL in the store; the URL is therefore not part of the serialized body.
//
// Branch, CurrentHash and ExecutionDirectory are pointers so that an
// absent value round-trips as an explicit null in the store.
type RepositoryRecord struct {
	// URL is the clone source and the unique key of the record.
	URL string `yaml:"-"`

	// Type is the installation strategy to run after clone/update.
	Type InstallType `yaml:"type"`

	// InstallationDirectory is the absolute local path of the clone.
	InstallationDirectory string `yaml:"installation_directory"`

	// Branch to clone and pull. Nil means the repository's default branch.
	Branch *string `yaml:"branch"`

	// CurrentHash is a specific commit to check out. May be nil.
	CurrentHash *string `yaml:"current_hash"`

	// LockHash pins the working copy to CurrentHash: install checks the
	// hash out and never pulls newer commits.
	LockHash bool `yaml:"lock_hash"`

	// ExecutionDirectory is the subdirectory of the clone in which the
	// installation strategy operates. Nil means the clone root.
	ExecutionDirectory *string `yaml:"execution_directory"`

	// OrderPlace orders install/push processing across records,
	// ascending. Ties keep store insertion order.
	OrderPlace int `yaml:"order_place"`
}

// Validate checks the record's internal consistency. A hash lock without
// a hash, a missing URL or installation directory, and an unknown type
// are all ErrInvalidConfiguration.
func (r *RepositoryRecord) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("%w: repository URL must not be empty", ErrInvalidConfiguration)
	}
	if strings.TrimSpace(r.InstallationDirectory) == "" {
		return fmt.Errorf("%w: installation directory must not be empty", ErrInvalidConfiguration)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown installation type %q", ErrInvalidConfiguration, string(r.Type))
	}
	if r.LockHash && (r.CurrentHash == nil || *r.CurrentHash == "") {
		return fmt.Errorf("%w: lock_hash requires current_hash to be set", ErrInvalidConfiguration)
	}
	return nil
}

// BranchName returns the configured branch, or "" for the default branch.
func (r *RepositoryRecord) BranchName() string {
	if r.Branch == nil {
		return ""
	}
	return *r.Branch
}

// Hash returns the pinned commit hash, or "" when none is recorded.
func (r *RepositoryRecord) Hash() string {
	if r.CurrentHash == nil {
		return ""
	}
	return *r.CurrentHash
}

// WorkDir is the directory the installation strategy runs in: the
// execution directory under the clone, or the clone root when none is set.
func (r *RepositoryRecord) WorkDir() string {
	if r.ExecutionDirectory == nil || *r.ExecutionDirectory == "" {
		return r.InstallationDirectory
	}
	return filepath.Join(r.InstallationDirectory, *r.ExecutionDirectory)
}

// RecordSet is the full set of repository records, keyed by URL. It
// remembers insertion order so that OrderedByPlace can break order_place
// ties the way the store file lists the records.
type RecordSet struct {
	records []*RepositoryRecord
	index   map[string]int
}

// NewRecordSet returns an empty set.
func NewRecordSet() *RecordSet {
	return &RecordSet{index: make(map[string]int)}
}

// Len returns the number of records in the set.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Get looks a record up by its URL.
func (s *RecordSet) Get(url string) (*RepositoryRecord, bool) {
	i, ok := s.index[url]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Upsert inserts the record, or replaces the existing record with the
// same URL when overwrite is true. Replacement keeps the record's
// position in the set. Returns ErrDuplicateRepository when the URL is
// already present and overwrite is false; the set is left unchanged.
func (s *RecordSet) Upsert(rec *RepositoryRecord, overwrite bool) error {
	if i, ok := s.index[rec.URL]; ok {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrDuplicateRepository, rec.URL)
		}
		s.records[i] = rec
		return nil
	}
	s.index[rec.URL] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

// All returns the records in insertion order. The slice is a copy; the
// records are shared.
func (s *RecordSet) All() []*RepositoryRecord {
	out := make([]*RepositoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// OrderedByPlace returns the records sorted by order_place ascending,
// with ties keeping insertion order (stable sort).
func (s *RecordSet) OrderedByPlace() []*RepositoryRecord {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderPlace < out[j].OrderPlace
	})
	return out
}

// AddInput carries the parameters of the add operation.
type AddInput struct {
	// URL is the clone source and unique key of the new record.
	URL string

	// Type is the installation strategy.
	Type InstallType

	// InstallationDirectory is the absolute local path to clone into.
	InstallationDirectory string

	// Branch pins the branch; nil means the default branch.
	Branch *string

	// CurrentHash pins a commit; nil means none.
	CurrentHash *string

	// ExecutionDirectory locates strategy files inside the clone; nil
	// means the clone root.
	ExecutionDirectory *string

	// OrderPlace orders this record relative to others (default 0).
	OrderPlace int

	// LockHash pins the working copy to CurrentHash.
	LockHash bool

	// Overwrite replaces an existing record with the same URL instead of
	// failing with ErrDuplicateRepository.
	Overwrite bool
}

// InstallInput carries the filters of the install operation. All fields
// are optional.
type InstallInput struct {
	// URL restricts the run to exactly one record. When set, the
	// exclusion filters are ignored.
	URL string

	// Exclude lists repository URLs to leave out of the run.
	Exclude []string

	// ExcludeType leaves out every record of the given installation
	// type. Empty means no type filter.
	ExcludeType InstallType

	// IgnoreWarnings proceeds past dirty working copies instead of
	// aborting the whole run before it mutates anything.
	IgnoreWarnings bool
}

// PushInput carries the parameters of the push operation.
type PushInput struct {
	// Message is the commit message. Empty means the configured default.
	Message string

	// Exclude lists repository URLs to leave out of the run.
	Exclude []string
}

// RepoOutcome is the result of processing a single repository inside an
// install or push batch.
type RepoOutcome struct {
	// URL identifies the repository.
	URL string

	// Action summarizes what happened ("cloned", "updated", "installed",
	// "pushed", "skipped", ...).
	Action string

	// Err is the per-repository failure, nil on success.
	Err error
}

// BatchReport collects the per-repository outcomes of an install or push
// run, in processing order.
type BatchReport struct {
	Outcomes []RepoOutcome
}

// Add appends an outcome to the report.
func (b *BatchReport) Add(url, action string, err error) {
	b.Outcomes = append(b.Outcomes, RepoOutcome{URL: url, Action: action, Err: err})
}

// Failed returns the number of outcomes that carry an error.
func (b *BatchReport) Failed() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
