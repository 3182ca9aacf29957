package api

import (
	"bytes"
	"fmt"

	"github.com/chenBenjamin97/posture-analyzer/pkg/analyzer"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

//renderChart draws the features of every bad frame of rec as an HTML line chart
func renderChart(rec *analyzer.Record) ([]byte, error) {
	frames := make([]int, 0, len(rec.BadPostureFrames))
	backAngles := make([]opts.LineData, 0, len(rec.BadPostureFrames))
	neckAngles := make([]opts.LineData, 0)
	kneeToe := make([]opts.LineData, 0)

	for _, v := range rec.BadPostureFrames {
		frames = append(frames, v.Frame)
		backAngles = append(backAngles, opts.LineData{Value: v.BackAngle})
		if v.NeckAngle != nil {
			neckAngles = append(neckAngles, opts.LineData{Value: *v.NeckAngle})
		}
		if v.KneeToeDiff != nil {
			kneeToe = append(kneeToe, opts.LineData{Value: *v.KneeToeDiff})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Posture report", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Bad %s frames", rec.PostureType),
			Subtitle: fmt.Sprintf("report=%s bad=%d checked=%d", rec.ID, len(rec.BadPostureFrames), rec.TotalCheckedFrames),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "degrees"}),
	)

	line.SetXAxis(frames).AddSeries("back angle", backAngles)
	if len(neckAngles) > 0 {
		line.AddSeries("neck angle", neckAngles)
	}
	if len(kneeToe) > 0 {
		line.AddSeries("knee-toe diff", kneeToe)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
