// store keeps generated machines and their constraints in a bolt
// database, keyed by model name.
package store

import (
	"bytes"
	"errors"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/makepsw/psw"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

var (
	// PRESET is the bucket holding full machines.
	PRESET = []byte("preset")
	// CONSTRAINTS is the bucket holding constraints only.
	CONSTRAINTS = []byte("constraints")
)

// ErrNotFound is returned when no model with a given name is stored.
var ErrNotFound = errors.New("model not found")

// Store is a preset database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) a preset database.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores machine and its constraints under name.
func (s *Store) Save(name string, m *psw.Machine) error {
	mb, err := psw.Encode(m, false)
	if err != nil {
		log.Error("Error serializing machine", err)
		return err
	}
	cb, err := psw.Encode(m.Cons, false)
	if err != nil {
		log.Error("Error serializing constraints", err)
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := put(tx, PRESET, []byte(name), mb); err != nil {
			return err
		}
		return put(tx, CONSTRAINTS, []byte(name), cb)
	})
	if err != nil {
		log.Error("Error saving model", err)
		return err
	}
	log.Infof("Saved model %s (%d states)", name, len(m.State))
	return nil
}

// Load returns the machine stored under name.
func (s *Store) Load(name string) (*psw.Machine, error) {
	b, err := LoadData(s.db, PRESET, []byte(name))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return psw.ReadMachine(bytes.NewReader(b))
}

// LoadConstraints returns the constraints stored under name.
func (s *Store) LoadConstraints(name string) (*psw.Constraints, error) {
	b, err := LoadData(s.db, CONSTRAINTS, []byte(name))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return psw.ReadConstraints(bytes.NewReader(b))
}

// Names returns stored model names in key order.
func (s *Store) Names() (names []string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(PRESET)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return
}

// Delete removes a model from the database. It returns ErrNotFound
// if there is no such model.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(PRESET)
		if b == nil || b.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		for _, bucket := range [][]byte{PRESET, CONSTRAINTS} {
			if b := tx.Bucket(bucket); b != nil {
				if err := b.Delete([]byte(name)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		log.Infof("Deleted model %s", name)
	}
	return err
}

func put(tx *bolt.Tx, bucket, key, data []byte) error {
	b, err := tx.CreateBucketIfNotExists(bucket)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

// LoadData loads data from bolt database. Missing keys give nil.
func LoadData(db *bolt.DB, bucket, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}

		// values are only valid inside the transaction
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
