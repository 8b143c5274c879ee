// PostgreSQL is the primitive data store for effstat.  The reporting verbs aggregate over the jobs
// table, the daemon's ingest path inserts into it.  Rows are written once at job completion and
// never updated, so every query here reads raw data with no caching; only if that becomes a
// performance problem will we add higher-level accessors.
//
// The connection is process-global in practice: the CLI opens one per run, the daemon opens one at
// startup and shares it between the request handlers and the ingest loop.

package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"effstat/eff"
)

// A UsageSource yields per-entity usage rows for the reporting verbs.  The concrete source is a
// DatabaseConnection; tests substitute fixtures.
type UsageSource interface {
	UserUsage(cluster string, fromDate, toDate time.Time, account string) ([]eff.UsageRow, error)
	AccountUsage(cluster string, fromDate, toDate time.Time) ([]eff.UsageRow, error)
}

// JobRecord is one completed Slurm job as ingested from the job-completion stream.  Sizes are GB,
// cpu_sec is consumed cpu time (user+system) in core-seconds, elapsed and timelimit are seconds of
// real time.
type JobRecord struct {
	Cluster      string
	JobID        int64
	User         string
	Account      string
	State        string
	SubmitTime   time.Time
	StartTime    time.Time // zero if the job never started
	EndTime      time.Time
	ElapsedSec   int64
	TimelimitSec int64
	ReqCPUs      int64 // per node
	ReqNodes     int64
	CpuSec       float64
	ReqMemGB     float64 // per node
	MaxRssGB     float64 // max across job steps
}

type DatabaseConnection struct {
	// The connection is not thread-safe.  Use the Query and Exec methods, they acquire a mutex
	// around the connection use (or they could manage a connection pool for better multi-threaded
	// access).
	connection *pgx.Conn
	lock       sync.Mutex
}

var _ UsageSource = (*DatabaseConnection)(nil)

func OpenDatabaseURI(databaseURI string) (*DatabaseConnection, error) {
	connection, err := pgx.Connect(context.Background(), databaseURI)
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to database: %v", err)
	}
	return &DatabaseConnection{connection: connection}, nil
}

func (cdb *DatabaseConnection) Query(cx context.Context, q string, args ...any) (pgx.Rows, error) {
	cdb.lock.Lock()
	defer cdb.lock.Unlock()
	return cdb.connection.Query(cx, q, args...)
}

func (cdb *DatabaseConnection) Exec(cx context.Context, q string, args ...any) (int64, error) {
	cdb.lock.Lock()
	defer cdb.lock.Unlock()
	tag, err := cdb.connection.Exec(cx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (cdb *DatabaseConnection) Close() error {
	cdb.lock.Lock()
	defer cdb.lock.Unlock()
	return cdb.connection.Close(context.Background())
}

// UserUsage returns one row per user with the user's summed requests and consumption over the
// period.  The period is inclusive at both ends: the caller passes toDate as the last instant of
// the last day.  An account name scopes the result to that account's jobs.
func (cdb *DatabaseConnection) UserUsage(
	cluster string,
	fromDate, toDate time.Time,
	account string,
) ([]eff.UsageRow, error) {
	if account != "" {
		return cdb.queryUsage("user_name", " AND account=$4", cluster, fromDate, toDate, account)
	}
	return cdb.queryUsage("user_name", "", cluster, fromDate, toDate)
}

// AccountUsage is UserUsage keyed by account instead.
func (cdb *DatabaseConnection) AccountUsage(
	cluster string,
	fromDate, toDate time.Time,
) ([]eff.UsageRow, error) {
	return cdb.queryUsage("account", "", cluster, fromDate, toDate)
}

func (cdb *DatabaseConnection) queryUsage(
	keyField, extraWhere string,
	args ...any,
) ([]eff.UsageRow, error) {
	var entity string
	var memoryRequested, memoryUsed, coresRequested, coresUsed float64
	var timeRequested, timeUsed float64
	var jobs int64

	// KEEP THESE TWO LISTS COMPLETELY IN SYNC OR YOU WILL BE SORRY!
	fields := keyField + ", " +
		"COALESCE(SUM(req_mem_gb),0)::float8, " +
		"COALESCE(SUM(max_rss_gb),0)::float8, " +
		"COALESCE(SUM(req_cpus*req_nodes*elapsed_sec),0)::float8, " +
		"COALESCE(SUM(cpu_sec),0)::float8, " +
		"COALESCE(SUM(timelimit_sec),0)::float8, " +
		"COALESCE(SUM(elapsed_sec),0)::float8, " +
		"COUNT(*)"
	boxes := []any{
		&entity, &memoryRequested, &memoryUsed, &coresRequested, &coresUsed,
		&timeRequested, &timeUsed, &jobs,
	}

	query := "SELECT " + fields +
		" FROM jobs WHERE cluster=$1 AND end_time>=$2 AND end_time<=$3" + extraWhere +
		" GROUP BY " + keyField

	unbox := func() eff.UsageRow {
		return eff.UsageRow{
			Entity:          entity,
			MemoryRequested: memoryRequested,
			MemoryUsed:      memoryUsed,
			CoresRequested:  coresRequested,
			CoresUsed:       coresUsed,
			TimeRequested:   timeRequested,
			TimeUsed:        timeUsed,
			Jobs:            jobs,
		}
	}
	return querySlice(cdb, boxes, unbox, query, args...)
}

// querySlice runs the query and maps each row through unbox, which reads the scan boxes.
func querySlice[T any](
	cdb *DatabaseConnection,
	boxes []any,
	unbox func() T,
	query string,
	args ...any,
) ([]T, error) {
	rows, err := cdb.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0)
	_, err = pgx.ForEachRow(rows, boxes, func() error {
		result = append(result, unbox())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
  cluster       text NOT NULL,
  job_id        bigint NOT NULL,
  user_name     text NOT NULL,
  account       text NOT NULL,
  job_state     text NOT NULL,
  submit_time   timestamptz NOT NULL,
  start_time    timestamptz,
  end_time      timestamptz,
  elapsed_sec   bigint NOT NULL,
  timelimit_sec bigint NOT NULL,
  req_cpus      bigint NOT NULL,
  req_nodes     bigint NOT NULL,
  cpu_sec       double precision NOT NULL,
  req_mem_gb    double precision NOT NULL,
  max_rss_gb    double precision NOT NULL,
  PRIMARY KEY (cluster, job_id, submit_time)
)`

const jobsEndTimeIndex = `
CREATE INDEX IF NOT EXISTS jobs_cluster_end_time ON jobs (cluster, end_time)`

// EnsureJobsTable creates the jobs table on first contact with a fresh database.  Ingest calls
// this at startup; reports never do.
func (cdb *DatabaseConnection) EnsureJobsTable() error {
	if _, err := cdb.Exec(context.Background(), jobsSchema); err != nil {
		return fmt.Errorf("Unable to create jobs table: %v", err)
	}
	if _, err := cdb.Exec(context.Background(), jobsEndTimeIndex); err != nil {
		return fmt.Errorf("Unable to create jobs index: %v", err)
	}
	return nil
}

const insertJobQuery = `
INSERT INTO jobs (cluster, job_id, user_name, account, job_state,
  submit_time, start_time, end_time, elapsed_sec, timelimit_sec,
  req_cpus, req_nodes, cpu_sec, req_mem_gb, max_rss_gb)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (cluster, job_id, submit_time) DO NOTHING`

// InsertJobs stores the records, skipping any that are already present.  Replays of the ingest
// stream are normal, so duplicates are not an error.  Returns the number actually inserted.
func (cdb *DatabaseConnection) InsertJobs(records []JobRecord) (int, error) {
	batch := new(pgx.Batch)
	for _, r := range records {
		batch.Queue(insertJobQuery,
			r.Cluster, r.JobID, r.User, r.Account, r.State,
			r.SubmitTime, nullableTime(r.StartTime), nullableTime(r.EndTime),
			r.ElapsedSec, r.TimelimitSec,
			r.ReqCPUs, r.ReqNodes, r.CpuSec, r.ReqMemGB, r.MaxRssGB,
		)
	}
	cdb.lock.Lock()
	defer cdb.lock.Unlock()
	results := cdb.connection.SendBatch(context.Background(), batch)
	inserted := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return inserted, fmt.Errorf("Unable to insert job record: %v", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, results.Close()
}

// DataSpan describes what the database holds for a cluster, for health reporting.
type DataSpan struct {
	Jobs  int64
	First time.Time // zero when the table is empty
	Last  time.Time
}

func (cdb *DatabaseConnection) Span(cluster string) (DataSpan, error) {
	var span DataSpan
	var first, last pgtype.Timestamptz

	rows, err := cdb.Query(
		context.Background(),
		"SELECT COUNT(*), MIN(end_time), MAX(end_time) FROM jobs WHERE cluster=$1",
		cluster,
	)
	if err != nil {
		return span, err
	}
	boxes := []any{&span.Jobs, &first, &last}
	if _, err := pgx.ForEachRow(rows, boxes, func() error { return nil }); err != nil {
		return span, err
	}
	if first.Valid {
		span.First = first.Time.UTC()
	}
	if last.Valid {
		span.Last = last.Time.UTC()
	}
	return span, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
