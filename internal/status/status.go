// Package status builds the read-only system status panel.
package status

import "os"

const (
	Version = "JADE OS v1.0"
	Build   = "December 2025"
)

// Service is one static service tile.
type Service struct {
	Name   string
	State  string
	Detail string
}

// Services are the backend services the panel advertises.
var Services = []Service{
	{Name: "FastAPI", State: "🟢 Running", Detail: "Port 5000"},
	{Name: "Redis", State: "🟢 Running", Detail: "Port 6800"},
	{Name: "Celery", State: "🟢 Running", Detail: "2 Workers"},
	{Name: "Playwright", State: "🟢 Ready", Detail: "Chromium"},
}

// Flag is an environment setting whose presence the panel reports.
type Flag struct {
	Env     string
	Present string
	Absent  string
}

// Flags in display order.
var Flags = []Flag{
	{Env: "DATABASE_URL", Present: "✅ Configured", Absent: "❌ Missing"},
	{Env: "PROXY_HOST", Present: "✅ Configured", Absent: "⚠️ Optional"},
	{Env: "OPENAI_API_KEY", Present: "✅ Configured", Absent: "⚠️ Fallback Mode"},
	{Env: "TELEGRAM_BOT_TOKEN", Present: "✅ Configured", Absent: "⚠️ Optional"},
}

// Worker is one entry of the workers list.
type Worker struct {
	Name        string
	Description string
}

var Workers = []Worker{
	{Name: "SocialSignalWorker V3", Description: "Multi-country Shopee scanning with context reset"},
	{Name: "GhostProcessor V3", Description: "Video camouflage with GPS randomization"},
	{Name: "SupplyChainWorker V3", Description: "Playwright-based product intelligence"},
	{Name: "StrategyRouter V3", Description: "AI-powered strategy execution (sanitized)"},
}

// Endpoints is the HTTP surface listing.
var Endpoints = []string{
	"GET  /health",
	"GET  /docs",
	"POST /intel/supply/track",
	"POST /agent/strategy",
	"POST /video/wash",
}

// FlagState is a flag evaluated against the environment.
type FlagState struct {
	Env   string
	Set   bool
	Label string
}

// Lookup reads one environment variable.
type Lookup func(key string) (string, bool)

// Snapshot is everything the panel shows at one render.
type Snapshot struct {
	Services  []Service
	Flags     []FlagState
	Workers   []Worker
	Endpoints []string
	Version   string
	Build     string
}

// Read evaluates the flags now using os.LookupEnv. Nothing is cached or
// written, so two reads around an environment change differ.
func Read() Snapshot {
	return ReadWith(os.LookupEnv)
}

// ReadWith is Read with an injectable environment.
func ReadWith(lookup Lookup) Snapshot {
	flags := make([]FlagState, len(Flags))
	for i, f := range Flags {
		v, ok := lookup(f.Env)
		set := ok && v != ""
		label := f.Absent
		if set {
			label = f.Present
		}
		flags[i] = FlagState{Env: f.Env, Set: set, Label: label}
	}
	return Snapshot{
		Services:  Services,
		Flags:     flags,
		Workers:   Workers,
		Endpoints: Endpoints,
		Version:   Version,
		Build:     Build,
	}
}
