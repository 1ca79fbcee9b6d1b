package easy21

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MarshalTo serializes the agent to the given io.Writer.
//
// The on-disk schema is explicit: base name, exploration and discount
// parameters, the ordered action list, then the table dimensions followed
// by the flat value and visit arrays. Load reconstructs the table shapes
// from this header rather than from implicit array shape.
func (a *TDAgent) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)

	if err := enc.Encode(a.params.BaseName); err != nil {
		return err
	}

	if err := enc.Encode(a.params.N0); err != nil {
		return err
	}

	if err := enc.Encode(a.params.Gamma); err != nil {
		return err
	}

	if err := enc.Encode(a.space.actions); err != nil {
		return err
	}

	dims := [3]int{numDealer, numPlayer, a.space.Len()}
	if err := enc.Encode(dims); err != nil {
		return err
	}

	if err := enc.Encode(a.values.vals); err != nil {
		return err
	}

	return enc.Encode(a.visits.vals)
}

// LoadTDAgent deserializes an agent written by MarshalTo.
// The loaded agent has an empty lookback window.
func LoadTDAgent(r io.Reader) (*TDAgent, error) {
	dec := gob.NewDecoder(r)

	var baseName string
	if err := dec.Decode(&baseName); err != nil {
		return nil, err
	}

	var n0, gamma float32
	if err := dec.Decode(&n0); err != nil {
		return nil, err
	}

	if err := dec.Decode(&gamma); err != nil {
		return nil, err
	}

	var actions []Action
	if err := dec.Decode(&actions); err != nil {
		return nil, err
	}

	space, err := NewActionSpace(actions)
	if err != nil {
		return nil, err
	}

	var dims [3]int
	if err := dec.Decode(&dims); err != nil {
		return nil, err
	}

	if dims != [3]int{numDealer, numPlayer, space.Len()} {
		return nil, errors.Errorf("table dimensions %v do not match %d actions", dims, space.Len())
	}

	values := newTable(space.Len())
	if err := dec.Decode(&values.vals); err != nil {
		return nil, err
	}

	visits := newTable(space.Len())
	if err := dec.Decode(&visits.vals); err != nil {
		return nil, err
	}

	if len(values.vals) != numDealer*numPlayer*space.Len() ||
		len(visits.vals) != len(values.vals) {
		return nil, errors.Errorf("tables have %d/%d entries, want %d",
			len(values.vals), len(visits.vals), numDealer*numPlayer*space.Len())
	}

	return &TDAgent{
		space:  space,
		params: Params{N0: n0, Gamma: gamma, BaseName: baseName}.withDefaults(),
		values: values,
		visits: visits,
	}, nil
}

// Save writes the agent to <outputDir>/<BaseName>[_<iteration>].gob,
// creating the directory if needed, and returns the written path. A
// negative iteration omits the tag. The lookback window is cleared first
// so that no transient per-episode state is persisted.
func (a *TDAgent) Save(outputDir string, iteration int) (string, error) {
	a.window.reset()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}

	name := a.params.BaseName
	if iteration >= 0 {
		name = fmt.Sprintf("%s_%d", name, iteration)
	}

	path := filepath.Join(outputDir, name+".gob")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating agent file")
	}

	if err := a.MarshalTo(f); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "writing agent to %v", path)
	}

	return path, errors.Wrapf(f.Close(), "closing %v", path)
}

// Load reads an agent previously written by Save.
func Load(path string) (*TDAgent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening agent file")
	}
	defer f.Close()

	agent, err := LoadTDAgent(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading agent from %v", path)
	}

	return agent, nil
}
