// Persist collected notes as the three artifacts downstream tools
// read: structured JSON, a human-readable summary, and CSV.

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-xhs-note-automation/internal/collector"
)

// Paths lists the artifacts one export produced.
type Paths struct {
	JSON    string
	Summary string
	CSV     string
	Chart   string
}

type metadata struct {
	CollectionTime int64  `json:"collection_time"`
	TotalNotes     int    `json:"total_notes"`
	Method         string `json:"collection_method"`
	DataVersion    string `json:"data_version"`
}

type statistics struct {
	TotalImpression   int     `json:"total_impression"`
	TotalClick        int     `json:"total_click"`
	TotalLike         int     `json:"total_like"`
	TotalCollect      int     `json:"total_collect"`
	TotalComment      int     `json:"total_comment"`
	TotalEngage       int     `json:"total_engage"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type document struct {
	Metadata   metadata               `json:"metadata"`
	Notes      []collector.NoteRecord `json:"notes"`
	Statistics statistics             `json:"statistics"`
}

type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteAll writes every artifact for one run, timestamped, and
// refreshes the latest_* copies other tools always read.
func (w *Writer) WriteAll(records []collector.NoteRecord) (Paths, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	ts := time.Now().Unix()
	paths := Paths{
		JSON:    filepath.Join(w.outputDir, fmt.Sprintf("hot_notes_data_%d.json", ts)),
		Summary: filepath.Join(w.outputDir, fmt.Sprintf("hot_notes_summary_%d.txt", ts)),
		CSV:     filepath.Join(w.outputDir, fmt.Sprintf("hot_notes_data_%d.csv", ts)),
		Chart:   filepath.Join(w.outputDir, fmt.Sprintf("hot_notes_chart_%d.html", ts)),
	}

	stats := buildStatistics(records)

	if err := w.writeJSON(paths.JSON, records, stats, ts); err != nil {
		return paths, err
	}
	if err := w.writeSummary(paths.Summary, records, stats, ts); err != nil {
		return paths, err
	}
	if err := w.writeCSV(paths.CSV, records); err != nil {
		return paths, err
	}
	if err := w.writeChart(paths.Chart, records); err != nil {
		return paths, err
	}

	//refresh latest copies, best-effort
	for src, name := range map[string]string{
		paths.JSON:    "latest_hot_notes.json",
		paths.Summary: "latest_hot_notes_summary.txt",
		paths.CSV:     "latest_hot_notes.csv",
		paths.Chart:   "latest_hot_notes_chart.html",
	} {
		if err := copyFile(src, filepath.Join(w.outputDir, name)); err != nil {
			log.Printf("⚠️ Failed to refresh %s: %v", name, err)
		}
	}

	return paths, nil
}

func buildStatistics(records []collector.NoteRecord) statistics {
	var s statistics
	var rateSum float64
	for _, r := range records {
		s.TotalImpression += r.Impression
		s.TotalClick += r.Click
		s.TotalLike += r.Like
		s.TotalCollect += r.Collect
		s.TotalComment += r.Comment
		s.TotalEngage += r.Engage
		rateSum += r.EngagementRate()
	}
	if len(records) > 0 {
		s.AvgEngagementRate = rateSum / float64(len(records))
	}
	return s
}

func (w *Writer) writeJSON(path string, records []collector.NoteRecord, stats statistics, ts int64) error {
	doc := document{
		Metadata: metadata{
			CollectionTime: ts,
			TotalNotes:     len(records),
			Method:         "browser_automation",
			DataVersion:    "1.0",
		},
		Notes:      records,
		Statistics: stats,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (w *Writer) writeSummary(path string, records []collector.NoteRecord, stats statistics, ts int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "小红书热门笔记采集结果摘要\n")
	fmt.Fprintf(f, "采集时间: %s\n", time.Unix(ts, 0).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "总计笔记数: %d\n", len(records))
	fmt.Fprintln(f, "================================================================================")
	fmt.Fprintln(f)

	fmt.Fprintln(f, "📊 数据统计:")
	fmt.Fprintf(f, "- 总曝光量: %d\n", stats.TotalImpression)
	fmt.Fprintf(f, "- 总阅读量: %d\n", stats.TotalClick)
	fmt.Fprintf(f, "- 总点赞量: %d\n", stats.TotalLike)
	fmt.Fprintf(f, "- 总收藏量: %d\n", stats.TotalCollect)
	fmt.Fprintf(f, "- 总评论量: %d\n", stats.TotalComment)
	fmt.Fprintf(f, "- 总互动量: %d\n", stats.TotalEngage)
	fmt.Fprintf(f, "- 平均互动率: %.2f%%\n", stats.AvgEngagementRate*100)
	fmt.Fprintln(f)

	fmt.Fprintln(f, "📝 笔记详情:")
	for i, r := range records {
		fmt.Fprintf(f, "\n%d. %s\n", i+1, r.Title)
		fmt.Fprintf(f, "   链接: %s\n", r.URL)
		fmt.Fprintf(f, "   数据: 曝光%d | 阅读%d | 点赞%d | 收藏%d | 评论%d | 互动%d\n",
			r.Impression, r.Click, r.Like, r.Collect, r.Comment, r.Engage)
		fmt.Fprintf(f, "   互动率: %.2f%%\n", r.EngagementRate()*100)
	}

	return nil
}

func (w *Writer) writeCSV(path string, records []collector.NoteRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"note_title", "note_url", "impression", "click", "like", "collect", "comment", "engage", "engagement_rate"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Title,
			r.URL,
			strconv.Itoa(r.Impression),
			strconv.Itoa(r.Click),
			strconv.Itoa(r.Like),
			strconv.Itoa(r.Collect),
			strconv.Itoa(r.Comment),
			strconv.Itoa(r.Engage),
			fmt.Sprintf("%.4f", r.EngagementRate()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
