package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mucar/barw/internal/sim"
	"github.com/mucar/barw/internal/store"
)

// registerTools registers all barw MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "barw_run",
		Description: "Run a branching random walk simulation and report the grown network",
	}, s.handleRun)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "barw_sweep",
		Description: "Run a parameter sweep over branching probability and interaction strengths",
	}, s.handleSweep)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "barw_list",
		Description: "List stored simulation runs",
	}, s.handleList)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "barw_show",
		Description: "Show one stored run's parameters and its tip-count history",
	}, s.handleShow)
}

// registerResources registers MCP resources for context loading.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         "barw://runs",
		Name:        "barw-stored-runs",
		Description: "Summary of stored simulation runs and their parameters.",
		MIMEType:    "text/markdown",
	}, s.handleRunsResource)
}

// params builds run parameters from the configured defaults plus overrides.
func (s *Server) params(in RunInput) sim.Params {
	p := s.defaults.ToParams()
	if in.Prob != nil {
		p.Prob = *in.Prob
	}
	if in.FC != nil {
		p.FC = *in.FC
	}
	if in.FS != nil {
		p.FS = *in.FS
	}
	if in.TMax != nil {
		p.TMax = *in.TMax
	}
	if in.Seed != nil {
		p.Seed = *in.Seed
	}
	return p
}

func (s *Server) handleRun(ctx context.Context, req *sdk.CallToolRequest, args RunInput) (*sdk.CallToolResult, RunOutput, error) {
	p := s.params(args)

	res, err := sim.Run(p)
	if err != nil {
		return nil, RunOutput{}, fmt.Errorf("simulation failed: %w", err)
	}

	out := RunOutput{
		Steps:      res.Steps(),
		Points:     len(res.Coordinates),
		Strands:    countStrands(res),
		FinalTips:  res.Evolve[len(res.Evolve)-1],
		Terminated: res.Steps() < p.TMax,
	}

	if args.Save == nil || *args.Save {
		id, err := s.store.SaveRun(ctx, p, res)
		if err != nil {
			return nil, RunOutput{}, fmt.Errorf("failed to save run: %w", err)
		}
		out.RunID = id
	}

	out.Message = fmt.Sprintf("grew %d points in %d strands over %d steps", out.Points, out.Strands, out.Steps)
	if out.Terminated {
		out.Message += " (all tips terminated)"
	}
	return nil, out, nil
}

func (s *Server) handleSweep(ctx context.Context, req *sdk.CallToolRequest, args SweepInput) (*sdk.CallToolResult, SweepOutput, error) {
	base := s.params(RunInput{TMax: args.TMax, Seed: args.Seed})
	runs := sim.Grid(base, args.Probs, args.FCs, args.FSs)

	outcomes := sim.Sweep(ctx, runs, args.Workers)

	var out SweepOutput
	failed := 0
	for _, oc := range outcomes {
		summary := SweepRunSummary{
			Prob: oc.Params.Prob,
			FC:   oc.Params.FC,
			FS:   oc.Params.FS,
			Seed: oc.Params.Seed,
		}
		if oc.Err != nil {
			summary.Error = oc.Err.Error()
			failed++
		} else {
			summary.Steps = oc.Result.Steps()
			summary.Points = len(oc.Result.Coordinates)
			if args.Save == nil || *args.Save {
				id, err := s.store.SaveRun(ctx, oc.Params, oc.Result)
				if err != nil {
					return nil, SweepOutput{}, fmt.Errorf("failed to save run: %w", err)
				}
				summary.RunID = id
			}
		}
		out.Runs = append(out.Runs, summary)
	}

	out.Count = len(out.Runs)
	out.Message = fmt.Sprintf("completed %d runs", out.Count-failed)
	if failed > 0 {
		out.Message += fmt.Sprintf(", %d failed", failed)
	}
	return nil, out, nil
}

func (s *Server) handleList(ctx context.Context, req *sdk.CallToolRequest, args ListInput) (*sdk.CallToolResult, ListOutput, error) {
	metas, err := s.store.ListRuns(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list runs: %w", err)
	}
	if args.Limit > 0 && len(metas) > args.Limit {
		metas = metas[:args.Limit]
	}

	var out ListOutput
	for _, m := range metas {
		out.Runs = append(out.Runs, runListItem(m))
	}
	out.Count = len(out.Runs)
	return nil, out, nil
}

func (s *Server) handleShow(ctx context.Context, req *sdk.CallToolRequest, args ShowInput) (*sdk.CallToolResult, ShowOutput, error) {
	meta, err := s.store.GetRun(ctx, args.ID)
	if err != nil {
		return nil, ShowOutput{}, err
	}
	res, err := s.store.LoadResult(ctx, args.ID)
	if err != nil {
		return nil, ShowOutput{}, err
	}
	return nil, ShowOutput{Run: runListItem(meta), Evolve: res.Evolve}, nil
}

// handleRunsResource returns stored runs formatted for context injection.
func (s *Server) handleRunsResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	metas, err := s.store.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Stored simulation runs\n\n")
	if len(metas) == 0 {
		sb.WriteString("No runs stored yet. Use `barw_run` to create one.\n")
	} else {
		sb.WriteString("| id | prob | fc | fs | tmax | seed | steps | points |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, m := range metas {
			fmt.Fprintf(&sb, "| %d | %g | %g | %g | %d | %d | %d | %d |\n",
				m.ID, m.Prob, m.FC, m.FS, m.TMax, m.Seed, m.Steps, m.Points)
		}
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "barw://runs",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

func runListItem(m store.RunMeta) RunListItem {
	return RunListItem{
		ID:        m.ID,
		Prob:      m.Prob,
		FC:        m.FC,
		FS:        m.FS,
		TMax:      m.TMax,
		Seed:      m.Seed,
		Steps:     m.Steps,
		Points:    m.Points,
		CreatedAt: m.CreatedAt,
	}
}

func countStrands(res sim.Result) int {
	seen := map[int]bool{}
	for _, pt := range res.Coordinates {
		seen[pt.Branch] = true
	}
	return len(seen)
}
