package cart

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var cartBucket = []byte("carts")

// Store persists carts by id.
type Store interface {
	// Get returns the stored cart, or a new empty cart with that id
	Get(id string) (*Cart, error)
	Save(c *Cart) error
	Delete(id string) error
	// Sweep drops carts not updated since before and reports how many were removed
	Sweep(before time.Time) (int, error)
	Close() error
}

// BoltStore keeps carts in a bbolt file, one JSON document per cart.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open cart store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init cart bucket")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(id string) (*Cart, error) {
	var c *Cart
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cartBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		c = new(Cart)
		return json.Unmarshal(data, c)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load cart %s", id)
	}
	if c == nil {
		c = New(id)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

func (s *BoltStore) Save(c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(id))
	})
}

func (s *BoltStore) Sweep(before time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cartBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var c Cart
			if err := json.Unmarshal(v, &c); err != nil || c.UpdatedAt.Before(before) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
