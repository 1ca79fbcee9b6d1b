// Command easy21-train trains a tabular TD agent on Easy21 and writes the
// learned agent, value and visit surfaces, and a training curve to the
// output directory.
package main

import (
	"flag"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/golang/glog"

	easy21 "github.com/easy21-rl/go-easy21"
	"github.com/easy21-rl/go-easy21/ckptstore"
	"github.com/easy21-rl/go-easy21/game"
	"github.com/easy21-rl/go-easy21/plot"
)

func main() {
	episodes := flag.Int("episodes", 1000000, "Number of episodes to train")
	n0 := flag.Float64("n0", 100, "Exploration constant")
	gamma := flag.Float64("gamma", 1, "Discount factor")
	outputDir := flag.String("output", "output", "Directory for saved agents and charts")
	checkpointEvery := flag.Int("checkpoint_every", 100000, "Episodes between checkpoints (0 to disable)")
	evalEpisodes := flag.Int("eval_episodes", 1000, "Greedy episodes played per training-curve point")
	dbPath := flag.String("db", "", "Optional LevelDB path for checkpoint history")
	seed := flag.Int64("seed", 0, "Random seed (0 for nondeterministic)")
	flag.Parse()
	defer glog.Flush()

	seedVal := *seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}

	agent, err := easy21.NewTDAgent(game.Actions, easy21.Params{
		N0:    float32(*n0),
		Gamma: float32(*gamma),
		Rand:  rand.New(rand.NewSource(seedVal)),
	})
	if err != nil {
		glog.Exitf("Creating agent: %v", err)
	}

	var store *ckptstore.Store
	if *dbPath != "" {
		store, err = ckptstore.New(*dbPath, nil)
		if err != nil {
			glog.Exitf("Opening checkpoint store: %v", err)
		}
		defer store.Close()
	}

	env := game.New(rand.New(rand.NewSource(seedVal + 1)))
	var curve []plot.Point
	trainer := &easy21.Trainer{
		Agent:           agent,
		Env:             env,
		CheckpointEvery: *checkpointEvery,
		Checkpoint: func(episode int, agent *easy21.TDAgent) error {
			meanReward, err := easy21.EvalGreedy(agent, env, *evalEpisodes)
			if err != nil {
				return err
			}

			curve = append(curve, plot.Point{Episode: episode, MeanReward: meanReward})
			glog.Infof("[episode=%d] Greedy mean reward: %.4f", episode, meanReward)

			if store != nil {
				return store.Put(episode, agent)
			}
			return nil
		},
	}

	stats, err := trainer.Run(*episodes)
	if err != nil {
		glog.Exitf("Training: %v", err)
	}
	glog.Infof("Trained %d episodes: %d wins / %d draws / %d losses, mean reward %.4f",
		stats.Episodes, stats.Wins, stats.Draws, stats.Losses, stats.MeanReward)

	path, err := agent.Save(*outputDir, -1)
	if err != nil {
		glog.Exitf("Saving agent: %v", err)
	}
	glog.Infof("Saved agent to %v", path)

	surfaces := filepath.Join(*outputDir, agent.BaseName()+"_surfaces.html")
	err = plot.WritePage(surfaces,
		plot.ValueSurface(agent, "State action values"),
		plot.VisitSurface(agent, "State action visits"),
	)
	if err != nil {
		glog.Exitf("Writing surfaces: %v", err)
	}
	glog.Infof("Wrote value/visit surfaces to %v", surfaces)

	if len(curve) > 0 {
		curvePath := filepath.Join(*outputDir, agent.BaseName()+"_curve.html")
		if err := plot.WritePage(curvePath, plot.TrainingCurve(curve, "Mean reward vs episode")); err != nil {
			glog.Exitf("Writing training curve: %v", err)
		}
		glog.Infof("Wrote training curve to %v", curvePath)
	}
}
