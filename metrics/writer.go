package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type AgentRecord struct {
	ID       int
	Name     string
	Strategy string
	Depth    int
	Episodes int
	Duration time.Duration
	Cutoff   int
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentRecord.ID playing +1
	Agent2 int // AgentRecord.ID playing -1
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentRecords(records []AgentRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.Name,
			r.Strategy,
			strconv.Itoa(r.Depth),
			strconv.Itoa(r.Episodes),
			r.Duration.String(),
			strconv.Itoa(r.Cutoff),
		})
	}
	header := []string{"id", "name", "strategy", "depth", "episodes", "duration", "cutoff"}
	return errors.Wrap(w.write("agents.csv", header, rows), "failed to write agent records")
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Agent1),
			strconv.Itoa(r.Agent2),
			strconv.Itoa(r.StartingPlayer),
			strconv.Itoa(r.Winner),
			strconv.Itoa(r.Score),
			strconv.FormatBool(r.Forfeit),
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.TotalMoves),
		})
	}
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "score", "forfeit", "start_time", "end_time", "duration", "total_moves"}
	return errors.Wrap(w.write("games.csv", header, rows), "failed to write game records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Player),
			r.Strategy,
			r.TimeLeft.String(),
			r.Allowance.String(),
			r.Duration.String(),
			strconv.Itoa(r.StartDepth),
			strconv.Itoa(r.Depth),
			strconv.Itoa(r.Passes),
			strconv.FormatBool(r.AbortedPass),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.FullPlayouts),
			strconv.FormatBool(r.IsTreeReset),
		})
	}
	header := []string{"game", "step", "player", "strategy", "time_left", "allowance", "duration", "start_depth", "depth", "passes", "aborted_pass", "nodes", "episodes", "full_playouts", "is_tree_reset"}
	return errors.Wrap(w.write("moves.csv", header, rows), "failed to write move records")
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write rows")
	}
	return nil
}
