// JSON flavor of the reports, served under /api/v1 on the daemon's mux.  The handlers drive the
// same verb machinery as the text bridge, so the two surfaces cannot drift apart; huma generates
// the OpenAPI description and serves interactive documentation at /docs for free.

package daemon

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"effstat/cmd"
	"effstat/cmd/accounts"
	"effstat/cmd/users"
	"effstat/cmd/version"
)

// Parameters shared by the report endpoints.  These mirror the long option names of the verbs.
type reportParams struct {
	Cluster      string `query:"cluster" required:"true" doc:"Cluster whose jobs to report on"`
	From         string `query:"from" example:"2w" doc:"Count jobs ending at this time or later: YYYY-MM-DD, or Nd/Nw for N days/weeks ago [default: 1w]"`
	To           string `query:"to" doc:"Count jobs ending at this time or earlier [default: now]"`
	Sort         string `query:"sort" enum:"total,cores,memory,mem,time" default:"total" doc:"Metric that orders the rows"`
	Ascending    bool   `query:"ascending" doc:"Order rows worst-first"`
	Number       uint   `query:"number" doc:"Keep at most this many of the most active entities, 0 for all"`
	IncludeEmpty bool   `query:"include-empty" doc:"Include entities that ran no jobs in the window"`
}

type usersInput struct {
	reportParams
	Account      string  `query:"account" doc:"Count only jobs charged to this account"`
	MinCoreHours float64 `query:"min-core-hours" doc:"Keep only users with at least this many core-hours"`
}

type accountsInput struct {
	reportParams
	MaxScore float64 `query:"max-score" doc:"Keep only accounts with a total score below this, 0 for all"`
}

type scoredEntity struct {
	Rank      int     `json:"rank" doc:"Dense rank by total score, best first"`
	Entity    string  `json:"entity" doc:"User or account name"`
	Cores     float64 `json:"cores_pct" doc:"Core-seconds used as a percentage of core-seconds requested"`
	Memory    float64 `json:"memory_pct" doc:"Peak resident memory as a percentage of memory requested"`
	Time      float64 `json:"time_pct" doc:"Elapsed time as a percentage of the time limit"`
	CoreHours float64 `json:"core_hours" doc:"Core-hours used by jobs ending in the window"`
	Jobs      int64   `json:"jobs" doc:"Number of jobs ending in the window"`
	Total     float64 `json:"total_pct" doc:"Composite efficiency score"`
}

type reportOutput struct {
	Body struct {
		Cluster  string         `json:"cluster"`
		From     string         `json:"from" doc:"Resolved start of the window"`
		To       string         `json:"to" doc:"Resolved end of the window"`
		Entities []scoredEntity `json:"entities"`
	}
}

type healthInput struct {
	Cluster string `query:"cluster" doc:"Report the data span for this cluster [default: the daemon's -cluster]"`
}

type healthOutput struct {
	Body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Cluster string `json:"cluster,omitempty"`
		Jobs    int64  `json:"jobs" doc:"Number of job records stored for the cluster"`
		First   string `json:"first,omitempty" doc:"Earliest job end time on record"`
		Last    string `json:"last,omitempty" doc:"Latest job end time on record"`
	}
}

func (dc *DaemonCommand) addApi(mux *http.ServeMux) {
	config := huma.DefaultConfig("effstat", version.Current())
	config.Info.Description = "Resource usage efficiency reports for Slurm clusters"
	api := humago.New(mux, config)

	// The same credentials protect the text bridge and the JSON api.  The documentation routes
	// are not operations and stay open, there are no data in them.
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		if !dc.apiAuthOk(ctx.Header("Authorization")) {
			if dc.getAuthenticator != nil {
				ctx.SetHeader("WWW-Authenticate", "Basic realm=\""+authRealm+"\", charset=\"utf-8\"")
			}
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(ctx)
	})

	huma.Get(api, "/api/v1/users", dc.apiUsers)
	huma.Get(api, "/api/v1/accounts", dc.apiAccounts)
	huma.Get(api, "/api/v1/health", dc.apiHealth)
}

// Same rule as the text bridge: with no authenticator only credential-less requests pass, with an
// authenticator the credentials must check out.

func (dc *DaemonCommand) apiAuthOk(header string) bool {
	if dc.getAuthenticator == nil {
		return header == ""
	}
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return false
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	return ok && dc.getAuthenticator.Authenticate(user, pass)
}

func (p *reportParams) applyTo(args *cmd.ReportArgs) {
	args.Cluster = p.Cluster
	args.FromDateStr = p.From
	args.ToDateStr = p.To
	args.SortByStr = p.Sort
	args.Ascending = p.Ascending
	if p.Number > 0 {
		args.NumberStr = strconv.Itoa(int(p.Number))
	} else {
		args.NumberStr = "all"
	}
	args.IncludeEmpty = p.IncludeEmpty
	// No table is rendered, so never let "auto" probe for a terminal.
	args.WidthStr = "none"
}

func (dc *DaemonCommand) apiUsers(_ context.Context, input *usersInput) (*reportOutput, error) {
	uc := new(users.UsersCommand)
	input.applyTo(uc.ReportFlags())
	uc.Account = input.Account
	uc.MinCoreHours = input.MinCoreHours
	return dc.runApiReport(uc)
}

func (dc *DaemonCommand) apiAccounts(_ context.Context, input *accountsInput) (*reportOutput, error) {
	ac := new(accounts.AccountsCommand)
	input.applyTo(ac.ReportFlags())
	ac.MaxScore = input.MaxScore
	return dc.runApiReport(ac)
}

func (dc *DaemonCommand) runApiReport(command cmd.ReportCommand) (*reportOutput, error) {
	if err := command.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	scored, err := command.Report(dc.theDb)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	args := command.ReportFlags()
	out := new(reportOutput)
	out.Body.Cluster = args.Cluster
	out.Body.From = args.FromDate.Format("2006-01-02")
	out.Body.To = args.ToDate.Format("2006-01-02")
	out.Body.Entities = make([]scoredEntity, len(scored))
	for i, s := range scored {
		out.Body.Entities[i] = scoredEntity{
			Rank:      s.Rank,
			Entity:    s.Entity,
			Cores:     s.Cores,
			Memory:    s.Memory,
			Time:      s.Time,
			CoreHours: s.CoreHours,
			Jobs:      s.Jobs,
			Total:     s.Total,
		}
	}
	return out, nil
}

func (dc *DaemonCommand) apiHealth(_ context.Context, input *healthInput) (*healthOutput, error) {
	out := new(healthOutput)
	out.Body.Status = "ok"
	out.Body.Version = version.Current()
	cluster := input.Cluster
	if cluster == "" {
		cluster = dc.Cluster
	}
	if cluster != "" {
		span, err := dc.theDb.Span(cluster)
		if err != nil {
			return nil, huma.Error500InternalServerError("Database unavailable", err)
		}
		out.Body.Cluster = cluster
		out.Body.Jobs = span.Jobs
		if span.Jobs > 0 {
			out.Body.First = span.First.Format("2006-01-02")
			out.Body.Last = span.Last.Format("2006-01-02")
		}
	}
	return out, nil
}
