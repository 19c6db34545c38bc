package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/beocaca/pomo.do/internal/api"
)

// ToCSV writes the daily completed-session history as a CSV table.
func ToCSV(stats []api.Stat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Day", "Sessions"}); err != nil {
		return err
	}

	for _, stat := range stats {
		row := []string{
			stat.Day,
			fmt.Sprintf("%d", stat.ChoresDone),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
