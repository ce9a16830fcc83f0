package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var (
	bucketGraph = []byte("graph")
	keySnapshot = []byte("snapshot")
)

// Save persists the graph as a JSON snapshot in a bbolt file at path.
func Save(path string, g *Graph) error {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("opening graph store %s: %w", path, err)
	}
	defer db.Close()
	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketGraph)
		if err != nil {
			return err
		}
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		return b.Put(keySnapshot, data)
	})
}

// LoadOrDefault loads the persisted graph from path. An absent or unreadable
// snapshot is not fatal at startup: it returns an explicit empty graph and
// loaded=false, and logs why.
func LoadOrDefault(path string) (g *Graph, loaded bool) {
	if _, err := os.Stat(path); err != nil {
		logrus.WithField("path", path).Debug("no knowledge graph snapshot, starting empty")
		return New(), false
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second, ReadOnly: true})
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("knowledge graph unreadable, starting empty")
		return New(), false
	}
	defer db.Close()
	g = New()
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketGraph)
		if b == nil {
			return fmt.Errorf("graph bucket missing")
		}
		data := b.Get(keySnapshot)
		if data == nil {
			return fmt.Errorf("graph snapshot missing")
		}
		return json.Unmarshal(data, g)
	})
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("knowledge graph snapshot corrupt, starting empty")
		return New(), false
	}
	return g, true
}
