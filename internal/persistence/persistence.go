package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketJointTuning = "jointTuning"
)

var ErrNoTuning = errors.New("no tuning stored")

type Persistence interface {
	Init() error

	LoadJointTuning(rigId string) ([]drive.JointDriveConfig, error)
	SaveJointTuning(rigId string, configs []drive.JointDriveConfig) (err error)
	DeleteJointTuning(rigId string) (err error)
	// ListRigs returns the ids of all rigs with stored tuning
	ListRigs() ([]string, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveJointTuning saves the drive configuration of all joints of a rig
func (p persistence) SaveJointTuning(rigId string, configs []drive.JointDriveConfig) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(configs)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketJointTuning))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(rigId), data)
	})
}

// LoadJointTuning loads the drive configuration of all joints of a rig.
// It returns ErrNoTuning if nothing was stored for the rig.
func (p persistence) LoadJointTuning(rigId string) ([]drive.JointDriveConfig, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var configs []drive.JointDriveConfig
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketJointTuning))
		if b == nil {
			return ErrNoTuning
		}
		v := b.Get([]byte(rigId))
		if v == nil {
			return ErrNoTuning
		}
		return json.Unmarshal(v, &configs)
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (p persistence) DeleteJointTuning(rigId string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketJointTuning))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(rigId))
	})
}

func (p persistence) ListRigs() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var result []string
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketJointTuning))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			result = append(result, string(k))
			return nil
		})
	})
	return result, err
}
