// Kafka ingestion: consume job records published by the cluster's collector and store them in the
// jobs table, so that the reports have something to chew on.
//
// Each message on the <cluster>.job topic is a v0 JSON jobs envelope.  An envelope either carries
// data (a set of slurm job and step records) or an error object from the collector; error objects
// are dropped after logging.  Messages are mapped to database rows and inserted with
// desired-state semantics: re-delivered or overlapping envelopes just hit the primary key and are
// ignored.

package daemon

import (
	"bytes"
	"context"
	"time"

	"github.com/NordicHPC/sonar/util/formats/newfmt"
	"github.com/twmb/franz-go/pkg/kgo"

	. "effstat/common"
	"effstat/db"
)

const consumerGroup = "effstat-ingest"

// startIngest connects to the brokers and starts the consumer loop on a goroutine.  The returned
// function stops the loop and waits for it to drain.

func (dc *DaemonCommand) startIngest() (stop func(), err error) {
	topic := dc.Cluster + "." + string(newfmt.DataTagJobs)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(dc.kafkaBrokers...),
		kgo.ConsumerGroup(consumerGroup),
		kgo.ConsumeTopics(topic),
	)
	if err != nil {
		return nil, err
	}
	Log.Infof("%s: Consuming %s from %d broker(s)", dc.Cluster, topic, len(dc.kafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer client.Close()
		// A panic in the loop is recovered and consumption resumes; uncommitted fetches are
		// simply re-delivered.
		UntilCancelled(ctx, func() {
			dc.consume(ctx, client)
		})
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// The consumer loop.  Ingestion errors are all soft: the record or fetch in question is logged
// and dropped, and the loop carries on, because a malformed message from one node must never
// block the data from every other node.

func (dc *DaemonCommand) consume(ctx context.Context, client *kgo.Client) {
	for {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			// All errors are retried internally when fetching, but non-retriable errors are
			// returned from polls so that users can notice and take action.
			Log.Errorf("%s: SOFT ERROR: Failed to fetch data: %v", dc.Cluster, errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			if dc.Verbose {
				Log.Infof("  %s: %s", dc.Cluster, record.Topic)
			}
			if err := dc.ingestJobs(record.Value); err != nil {
				Log.Errorf("  %s: SOFT ERROR: Ingest failed: %v", dc.Cluster, err)
			}
		}
		if err := client.CommitUncommittedOffsets(ctx); err != nil {
			Log.Errorf("  %s: SOFT ERROR: Commit records failed: %v", dc.Cluster, err)
		}
	}
}

func (dc *DaemonCommand) ingestJobs(value []byte) error {
	var records []db.JobRecord
	dropped := 0
	err := newfmt.ConsumeJSONJobs(bytes.NewReader(value), false, func(envelope *newfmt.JobsEnvelope) {
		if envelope.Errors != nil || envelope.Data == nil {
			dropped++
			return
		}
		records = append(records, envelopeJobs(dc.Cluster, envelope)...)
	})
	if err != nil {
		return err
	}
	if dropped > 0 {
		Log.Infof("%s: Dropping %d job error object(s) on the floor", dc.Cluster, dropped)
	}
	if len(records) == 0 {
		return nil
	}
	n, err := dc.theDb.InsertJobs(records)
	if err != nil {
		return err
	}
	if dc.Verbose {
		Log.Infof("%s: Stored %d of %d job record(s)", dc.Cluster, n, len(records))
	}
	return nil
}

// envelopeJobs maps the envelope's slurm job data onto database rows.  The main record of a job
// has an empty job step and carries everything we need except the peak memory, which is sampled
// per step; the peak across the steps is folded into the job's row.  Step records arriving
// without a main record (the collector sends complete jobs, so this is hypothetical) are dropped.

func envelopeJobs(cluster string, envelope *newfmt.JobsEnvelope) []db.JobRecord {
	var fakeSacct newfmt.SacctData
	jobs := envelope.Data.Attributes.SlurmJobs
	records := make([]db.JobRecord, 0, len(jobs))
	ix := make(map[int64]int)

	for i := range jobs {
		job := &jobs[i]
		if job.JobStep != "" {
			continue
		}
		sacct := job.Sacct
		if sacct == nil {
			sacct = &fakeSacct
		}
		var timelimit uint64
		if job.Timelimit >= newfmt.ExtendedUintBase {
			timelimit, _ = job.Timelimit.ToUint()
		}
		submitTime := parseEnvelopeTime(string(job.SubmitTime))
		startTime := parseEnvelopeTime(string(job.Start))
		endTime := parseEnvelopeTime(string(job.End))
		elapsed := int64(sacct.ElapsedRaw)
		if elapsed == 0 && !startTime.IsZero() && !endTime.IsZero() {
			elapsed = int64(endTime.Sub(startTime).Seconds())
		}
		ix[int64(job.JobID)] = len(records)
		records = append(records, db.JobRecord{
			Cluster:      cluster,
			JobID:        int64(job.JobID),
			User:         job.UserName,
			Account:      job.Account,
			State:        string(job.JobState),
			SubmitTime:   submitTime,
			StartTime:    startTime,
			EndTime:      endTime,
			ElapsedSec:   elapsed,
			TimelimitSec: int64(timelimit),
			ReqCPUs:      int64(job.ReqCPUS),
			ReqNodes:     int64(job.ReqNodes),
			CpuSec:       float64(sacct.UserCPU) + float64(sacct.SystemCPU),
			ReqMemGB:     float64(job.ReqMemoryPerNode),
			MaxRssGB:     float64(sacct.MaxRSS),
		})
	}

	for i := range jobs {
		job := &jobs[i]
		if job.JobStep == "" || job.Sacct == nil {
			continue
		}
		if k, found := ix[int64(job.JobID)]; found {
			records[k].MaxRssGB = max(records[k].MaxRssGB, float64(job.Sacct.MaxRSS))
		}
	}
	return records
}

func parseEnvelopeTime(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
