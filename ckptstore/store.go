// Package ckptstore keeps a history of agent checkpoints in a LevelDB
// database, keyed by training iteration. It lets long runs be resumed
// from the most recent snapshot without retaining every blob in memory.
package ckptstore

import (
	"bytes"
	"encoding/binary"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	easy21 "github.com/easy21-rl/go-easy21"
)

// ErrEmpty is returned by Latest when the store has no checkpoints.
var ErrEmpty = errors.New("ckptstore: no checkpoints")

// Store is a LevelDB-backed collection of serialized agents.
// Keys are big-endian iteration numbers so that database order is
// iteration order. Store is not safe for concurrent use.
type Store struct {
	path string

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// New opens (creating if needed) a checkpoint store at the given
// directory path.
func New(path string, opts *opt.Options) (*Store, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening checkpoint db at %v", path)
	}

	return &Store{path: path, db: db}, nil
}

// Close implements io.Closer.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a snapshot of the agent under the given iteration,
// replacing any previous snapshot for that iteration.
func (s *Store) Put(iter int, agent *easy21.TDAgent) error {
	var buf bytes.Buffer
	if err := agent.MarshalTo(&buf); err != nil {
		return errors.Wrapf(err, "serializing agent at iter %d", iter)
	}

	if err := s.db.Put(key(iter), buf.Bytes(), s.wOpts); err != nil {
		return errors.Wrapf(err, "storing checkpoint %d", iter)
	}

	glog.V(1).Infof("Stored checkpoint %d (%d bytes)", iter, buf.Len())
	return nil
}

// Get loads the snapshot stored under the given iteration.
func (s *Store) Get(iter int) (*easy21.TDAgent, error) {
	value, err := s.db.Get(key(iter), s.rOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching checkpoint %d", iter)
	}

	agent, err := easy21.LoadTDAgent(bytes.NewReader(value))
	if err != nil {
		return nil, errors.Wrapf(err, "deserializing checkpoint %d", iter)
	}

	return agent, nil
}

// Latest returns the highest stored iteration and its agent.
func (s *Store) Latest() (int, *easy21.TDAgent, error) {
	it := s.db.NewIterator(nil, s.rOpts)
	defer it.Release()

	if !it.Last() {
		if err := it.Error(); err != nil {
			return 0, nil, errors.Wrap(err, "seeking latest checkpoint")
		}
		return 0, nil, ErrEmpty
	}

	iter := int(binary.BigEndian.Uint64(it.Key()))
	agent, err := easy21.LoadTDAgent(bytes.NewReader(it.Value()))
	if err != nil {
		return 0, nil, errors.Wrapf(err, "deserializing checkpoint %d", iter)
	}

	return iter, agent, nil
}

// Iters returns the stored iterations in ascending order.
func (s *Store) Iters() ([]int, error) {
	it := s.db.NewIterator(nil, s.rOpts)
	defer it.Release()

	var result []int
	for it.Next() {
		result = append(result, int(binary.BigEndian.Uint64(it.Key())))
	}

	return result, errors.Wrap(it.Error(), "scanning checkpoints")
}

func key(iter int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(iter))
	return buf[:]
}
