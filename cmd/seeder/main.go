package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	workcycles "github.com/baibhavbista/gai-workcycles"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
)

// Synthetic work sessions for exercising the pipeline and search
// locally. Each entry becomes one completed session with cycles.
var seedSessions = []struct {
	objective  string
	importance string
	done       string
	lessons    string
	cycleGoals []string
}{
	{
		objective:  "Ship the CSV importer end to end",
		importance: "Blocking three customers from onboarding",
		done:       "Imports a 100k row file without manual cleanup",
		lessons:    "Quoting edge cases ate most of the time, start with the parser tests next time",
		cycleGoals: []string{"Parse headers and infer column types", "Handle quoted fields and escapes", "Wire progress reporting into the UI"},
	},
	{
		objective:  "Cut API p99 latency below 200ms",
		importance: "Dashboard feels sluggish and support tickets mention it weekly",
		done:       "p99 under 200ms on the staging load test",
		lessons:    "The ORM was issuing N+1 queries on the list endpoint",
		cycleGoals: []string{"Profile the list endpoint under load", "Batch the permission lookups", "Add the missing composite index"},
	},
	{
		objective:  "Write the on-call runbook for the ingest service",
		importance: "Two incidents last month were handled from memory",
		done:       "Runbook covers the five most recent incident classes",
		lessons:    "Writing the failure modes down surfaced a missing alert",
		cycleGoals: []string{"List failure modes from incident history", "Document recovery steps for queue backlog", "Review the draft with the on-call rotation"},
	},
	{
		objective:  "Prototype offline search for the notes app",
		importance: "Users keep asking for search that works on flights",
		done:       "Search returns results with the network disabled",
		lessons:    "Index size matters more than query speed at this scale",
		cycleGoals: []string{"Evaluate embedded index options", "Build the indexing pass over existing notes", "Measure index size on a real corpus"},
	},
	{
		objective:  "Clean up the flaky integration test suite",
		importance: "CI reruns are costing the team an hour a day",
		done:       "Ten green runs in a row on main",
		lessons:    "Most flakes were shared fixture state, not timing",
		cycleGoals: []string{"Rank tests by failure rate", "Isolate the shared database fixtures", "Delete the three tests nobody can explain"},
	},
}

var (
	dbPath  = flag.String("db", "./workcycles_db", "path to BadgerDB database directory")
	process = flag.Bool("process", false, "process the created jobs (requires a running model host)")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	store := records.NewMemoryStore()

	engine, err := workcycles.NewEngine(*dbPath, workcycles.WithRecordsStore(store))
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	jobsCreated := 0

	for i, seed := range seedSessions {
		started := now.Add(-time.Duration(len(seedSessions)-i) * 24 * time.Hour)
		session := &records.Session{
			Id:                    fmt.Sprintf("seed-s-%d", i+1),
			Title:                 seed.objective,
			Objective:             seed.objective,
			Importance:            seed.importance,
			DoneDefinition:        seed.done,
			ReviewLessons:         seed.lessons,
			StartedAt:             started,
			CompletedAt:           started.Add(3 * time.Hour),
			ReviewAccomplishments: seed.done,
		}
		store.PutSession(session)

		var cycles []*records.Cycle
		for j, goal := range seed.cycleGoals {
			cycle := &records.Cycle{
				Id:        fmt.Sprintf("seed-c-%d-%d", i+1, j+1),
				SessionId: session.Id,
				Goal:      goal,
				Outcome:   core.OutcomeHit,
				StartedAt: started.Add(time.Duration(j) * time.Hour),
				EndedAt:   started.Add(time.Duration(j)*time.Hour + 50*time.Minute),
			}
			if j == len(seed.cycleGoals)-1 {
				cycle.Outcome = core.OutcomePartial
			}
			store.PutCycle(cycle)
			cycles = append(cycles, cycle)
		}

		created, err := engine.Creator().CreateSessionFieldJobs(ctx, session)
		if err != nil {
			panic(err)
		}
		jobsCreated += created

		for _, cycle := range cycles {
			created, err = engine.Creator().CreateCycleFieldJobs(ctx, cycle)
			if err != nil {
				panic(err)
			}
			jobsCreated += created

			if id, err := engine.Creator().CreateCycleJob(ctx, cycle); err != nil {
				panic(err)
			} else if id != "" {
				jobsCreated++
			}
		}

		if id, err := engine.Creator().CreateSessionJob(ctx, session, cycles); err != nil {
			panic(err)
		} else if id != "" {
			jobsCreated++
		}
	}

	slog.Info("seeded", "sessions", len(seedSessions), "jobs", jobsCreated)

	if *process {
		result, err := engine.NewScheduler(nil).ProcessOnce(ctx)
		if err != nil {
			panic(err)
		}
		slog.Info("processed", "succeeded", result.Succeeded, "failed", result.Failed)
	}
}
