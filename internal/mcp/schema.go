package mcp

import "time"

// RunInput defines the input for the barw_run tool. Unset parameters fall
// back to the configured defaults.
type RunInput struct {
	Prob *float64 `json:"prob,omitempty" jsonschema:"Per-tip branching probability per step (0.0-1.0)"`
	FC   *float64 `json:"fc,omitempty" jsonschema:"Strength of steering toward the reference direction"`
	FS   *float64 `json:"fs,omitempty" jsonschema:"Self-interaction strength; negative repels from tissue"`
	TMax *int     `json:"tmax,omitempty" jsonschema:"Number of growth steps to simulate"`
	Seed *int64   `json:"seed,omitempty" jsonschema:"Random seed; equal seeds reproduce runs exactly"`
	Save *bool    `json:"save,omitempty" jsonschema:"Persist the run to the store (default: true)"`
}

// RunOutput defines the output for the barw_run tool.
type RunOutput struct {
	RunID      int64  `json:"run_id,omitempty" jsonschema:"Store id of the saved run (0 when not saved)"`
	Steps      int    `json:"steps" jsonschema:"Growth steps actually executed"`
	Points     int    `json:"points" jsonschema:"Total tissue points recorded"`
	Strands    int    `json:"strands" jsonschema:"Number of distinct strands grown"`
	FinalTips  int    `json:"final_tips" jsonschema:"Tips still active when the run ended"`
	Terminated bool   `json:"terminated" jsonschema:"Whether growth died out before the horizon"`
	Message    string `json:"message" jsonschema:"Human-readable result summary"`
}

// SweepInput defines the input for the barw_sweep tool.
type SweepInput struct {
	Probs   []float64 `json:"probs,omitempty" jsonschema:"Branching probabilities to sweep over"`
	FCs     []float64 `json:"fcs,omitempty" jsonschema:"Guidance strengths to sweep over"`
	FSs     []float64 `json:"fss,omitempty" jsonschema:"Self-interaction strengths to sweep over"`
	TMax    *int      `json:"tmax,omitempty" jsonschema:"Growth steps per run"`
	Seed    *int64    `json:"seed,omitempty" jsonschema:"Base seed; each run gets a distinct derived seed"`
	Workers int       `json:"workers,omitempty" jsonschema:"Parallel workers (default: number of CPUs)"`
	Save    *bool     `json:"save,omitempty" jsonschema:"Persist the runs to the store (default: true)"`
}

// SweepOutput defines the output for the barw_sweep tool.
type SweepOutput struct {
	Runs    []SweepRunSummary `json:"runs" jsonschema:"Per-run summaries in grid order"`
	Count   int               `json:"count" jsonschema:"Number of runs executed"`
	Message string            `json:"message" jsonschema:"Human-readable summary"`
}

// SweepRunSummary summarizes one run of a sweep.
type SweepRunSummary struct {
	RunID  int64   `json:"run_id,omitempty"`
	Prob   float64 `json:"prob"`
	FC     float64 `json:"fc"`
	FS     float64 `json:"fs"`
	Seed   int64   `json:"seed"`
	Steps  int     `json:"steps"`
	Points int     `json:"points"`
	Error  string  `json:"error,omitempty"`
}

// ListInput defines the input for the barw_list tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs to return (default: all)"`
}

// ListOutput defines the output for the barw_list tool.
type ListOutput struct {
	Runs  []RunListItem `json:"runs" jsonschema:"Stored runs, newest first"`
	Count int           `json:"count" jsonschema:"Number of runs returned"`
}

// RunListItem provides a list view of a stored run.
type RunListItem struct {
	ID        int64     `json:"id"`
	Prob      float64   `json:"prob"`
	FC        float64   `json:"fc"`
	FS        float64   `json:"fs"`
	TMax      int       `json:"tmax"`
	Seed      int64     `json:"seed"`
	Steps     int       `json:"steps"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// ShowInput defines the input for the barw_show tool.
type ShowInput struct {
	ID int64 `json:"id" jsonschema:"Store id of the run"`
}

// ShowOutput defines the output for the barw_show tool.
type ShowOutput struct {
	Run    RunListItem `json:"run" jsonschema:"Run metadata"`
	Evolve []int       `json:"evolve" jsonschema:"Active-tip count per step, seed entry included"`
}
