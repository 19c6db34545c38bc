package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/beocaca/pomo.do/internal/api"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Stats      []jsonStat `json:"stats"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonStat struct {
	Day      string `json:"day"`
	Sessions int    `json:"sessions"`
}

type jsonTask struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Estimated   int    `json:"estimated"`
	GoneThrough int    `json:"gone_through"`
	Done        bool   `json:"done"`
	Tags        string `json:"tags,omitempty"`
}

// ToJSON writes the session history plus the cached task window.
func ToJSON(stats []api.Stat, tasks []api.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, stat := range stats {
		export.Stats = append(export.Stats, jsonStat{
			Day:      stat.Day,
			Sessions: stat.ChoresDone,
		})
	}

	for _, task := range tasks {
		names := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			names[i] = tag.Name
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          task.ID,
			Title:       task.Title,
			Estimated:   task.Estimated,
			GoneThrough: task.GoneThrough,
			Done:        task.Done,
			Tags:        strings.Join(names, ","),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
