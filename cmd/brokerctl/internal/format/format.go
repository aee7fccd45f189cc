package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/mqbroker/internal/attribute"
	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Output formats.
const (
	Table = "table"
	JSON  = "json"
)

// Topics writes a topic listing as a table or JSON.
func Topics(w io.Writer, topics []topicmgr.TopicConfig, dv topicmgr.DataVersion, format string) error {
	if format == JSON {
		return writeJSON(w, struct {
			Topics      []topicmgr.TopicConfig `json:"topics"`
			Count       int                    `json:"count"`
			DataVersion topicmgr.DataVersion   `json:"dataVersion"`
		}{Topics: topics, Count: len(topics), DataVersion: dv})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREAD\tWRITE\tPERM\tFILTER\tSYSFLAG\tORDER\tATTRIBUTES")
	fmt.Fprintln(tw, "----\t----\t-----\t----\t------\t-------\t-----\t----------")
	if len(topics) == 0 {
		fmt.Fprintln(tw, "No topics found")
	}
	for _, t := range topics {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%d\t%t\t%s\n",
			t.TopicName,
			t.ReadQueueNums,
			t.WriteQueueNums,
			t.Perm,
			t.TopicFilterType,
			t.TopicSysFlag,
			t.Order,
			truncate(orDash(attribute.FormatKV(t.Attributes)), 40))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d topics, data version %d (state %d)\n", len(topics), dv.Counter, dv.StateVersion)
	return err
}

// Topic writes the details of a single topic.
func Topic(w io.Writer, t topicmgr.TopicConfig, format string) error {
	if format == JSON {
		return writeJSON(w, t)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", t.TopicName)
	fmt.Fprintf(tw, "Read queues:\t%d\n", t.ReadQueueNums)
	fmt.Fprintf(tw, "Write queues:\t%d\n", t.WriteQueueNums)
	fmt.Fprintf(tw, "Perm:\t%s (%d)\n", t.Perm, uint32(t.Perm))
	fmt.Fprintf(tw, "Filter type:\t%s\n", t.TopicFilterType)
	fmt.Fprintf(tw, "System flag:\t%d\n", t.TopicSysFlag)
	fmt.Fprintf(tw, "Order:\t%t\n", t.Order)
	fmt.Fprintf(tw, "Attributes:\t%s\n", orDash(attribute.FormatKV(t.Attributes)))
	return tw.Flush()
}

// Registration writes one line per topic of a registration.
func Registration(w io.Writer, r dispatch.Registration, format string) error {
	if format == JSON {
		enc := json.NewEncoder(w)
		return enc.Encode(r)
	}
	for _, t := range r.Topics {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\tversion=%d\tread=%d\twrite=%d\tperm=%s\n",
			r.CreatedAt.Format("15:04:05.000"), r.Mode, t.TopicName, r.DataVersion.Counter,
			t.ReadQueueNums, t.WriteQueueNums, t.Perm); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
