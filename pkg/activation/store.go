// Package activation persists the machine's single activation record and
// meters usage against it. It is the only package that touches stored
// licensing state.
//
// There is deliberately no deactivation or revocation operation: a license
// bound to a dead machine stays bound until a product decision says
// otherwise.
package activation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/blackowiak/blackowiak-llm/pkg/cfgdir"
	"github.com/blackowiak/blackowiak-llm/pkg/errors"
	"github.com/blackowiak/blackowiak-llm/pkg/license"
	"github.com/blackowiak/blackowiak-llm/pkg/machineid"
)

var (
	ErrNotActivated    = errors.NewFriendlyError("No license found. Please activate a license.")
	ErrMachineMismatch = errors.NewFriendlyError("License is tied to a different machine.")
)

// Record is the persisted proof of a successful activation. Exactly one
// exists per machine; a new activation overwrites it.
type Record struct {
	LicenseCode string       `json:"license_code"`
	LicenseData license.Data `json:"license_data"`
	MachineID   string       `json:"machine_id"`
	Activated   time.Time    `json:"activated"`
	UsageCount  int          `json:"usage_count"`
	LastUsed    *time.Time   `json:"last_used,omitempty"`
}

// locker guards the record's read-modify-write cycles. Production uses a
// flock next to the record so two processes can't lose an increment; tests
// on a memory filesystem run lockless.
type locker interface {
	Lock() error
	Unlock() error
}

type Store struct {
	fs        afero.Fs
	path      string
	lock      locker
	validator *license.Validator
	machineID func() string
	now       func() time.Time
}

// NewStore returns the production store, rooted at the per-user config
// directory and keyed with the build-embedded signing key.
func NewStore() *Store {
	return NewStoreAt(cfgdir.Expand("license.json"))
}

// NewStoreAt is NewStore with the record at a caller-chosen path.
func NewStoreAt(path string) *Store {
	return &Store{
		fs:        afero.NewOsFs(),
		path:      path,
		lock:      flockLocker{flock.New(path + ".lock")},
		validator: license.NewValidator(license.DefaultSigner()),
		machineID: machineid.Current,
		now:       time.Now,
	}
}

// Activate validates a code and, on success, binds it to this machine by
// overwriting the activation record. On failure any existing record is left
// untouched. Activation assumes no prior usage of the code, so the usage
// lookup always reports zero.
func (s *Store) Activate(code string) (license.Data, error) {
	data, err := s.validator.Validate(code, s.now(), func(string) int { return 0 })
	if err != nil {
		return license.Data{}, err
	}

	if err := s.ensureDir(); err != nil {
		return license.Data{}, err
	}
	if err := s.lock.Lock(); err != nil {
		return license.Data{}, errors.WithContext("acquire license lock", err)
	}
	defer s.lock.Unlock()

	record := Record{
		LicenseCode: code,
		LicenseData: data,
		MachineID:   s.machineID(),
		Activated:   s.now(),
		UsageCount:  0,
	}
	if err := s.write(record); err != nil {
		return license.Data{}, err
	}
	return data, nil
}

// Check reports whether this machine is currently entitled. The stored code
// is fully re-validated rather than trusting the snapshot, so a license
// that expired since activation (or was signed with a retired key) fails
// here, and a record copied from another machine fails the fingerprint
// comparison.
func (s *Store) Check() (license.Data, int, error) {
	record, err := s.read()
	if err != nil {
		return license.Data{}, 0, err
	}

	data, err := s.validator.Validate(record.LicenseCode, s.now(), func(code string) int {
		if code == record.LicenseCode {
			return record.UsageCount
		}
		return 0
	})
	if err != nil {
		return license.Data{}, 0, err
	}

	if record.MachineID != s.machineID() {
		return license.Data{}, 0, ErrMachineMismatch
	}

	return data, record.UsageCount, nil
}

// IncrementUsage records one metered use. Metering is best-effort: losing
// an increment is preferable to blocking the user's work, so all failures
// are swallowed. Without an activation record this is a no-op; callers
// without a license are rejected by Check before any metered work runs.
func (s *Store) IncrementUsage() {
	if err := s.incrementUsage(); err != nil {
		log.WithError(err).Debug("Failed to record license usage")
	}
}

func (s *Store) incrementUsage() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return errors.WithContext("acquire license lock", err)
	}
	defer s.lock.Unlock()

	record, err := s.read()
	if err != nil {
		if errors.Is(err, ErrNotActivated) {
			return nil
		}
		return err
	}

	record.UsageCount++
	now := s.now()
	record.LastUsed = &now
	return s.write(record)
}

func (s *Store) read() (Record, error) {
	recordJSON, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotActivated
		}
		return Record{}, errors.WithContext("read activation record", err)
	}

	var record Record
	if err := json.Unmarshal(recordJSON, &record); err != nil {
		return Record{}, errors.WithContext("parse activation record", err)
	}
	return record, nil
}

func (s *Store) write(record Record) error {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.WithContext("marshal activation record", err)
	}
	if err := afero.WriteFile(s.fs, s.path, recordJSON, 0600); err != nil {
		return errors.WithContext("write activation record", err)
	}
	return nil
}

func (s *Store) ensureDir() error {
	return s.fs.MkdirAll(filepath.Dir(s.path), 0700)
}

type flockLocker struct {
	flock *flock.Flock
}

func (l flockLocker) Lock() error {
	return l.flock.Lock()
}

func (l flockLocker) Unlock() error {
	return l.flock.Unlock()
}
