package integration_tests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"themeradar/internal/repository"
	"themeradar/internal/serialize"

	"github.com/gocarina/gocsv"
)

type snapshotFixtureRow struct {
	Symbol        string `csv:"symbol"`
	Name          string `csv:"name"`
	PreviousClose string `csv:"previous_close"`
	CurrentPrice  string `csv:"current_price"`
	Volume        string `csv:"volume"`
	MarketCap     string `csv:"market_cap"`
}

// SampleSnapshot is one trading day: an AI pair, a space pair, a lone
// robotics mover and a stock that did not move
var SampleSnapshot = []snapshotFixtureRow{
	{"1001.T", "Alpha AI Systems", "1000", "1300", "2000000", "150000000000"},
	{"1002.T", "Beta Data", "1500", "1820", "600000", "40000000000"},
	{"1003.T", "Gamma Robotics", "2000", "2450", "300000", ""},
	{"1004.T", "Delta Rocket", "1200", "1500", "900000", "60000000000"},
	{"1005.T", "Epsilon Satellite", "300", "370", "400000", "12000000000"},
	{"1006.T", "Zeta Foods", "1000", "1050", "5000000", "300000000000"},
}

func newsTime(minute int) time.Time {
	return time.Date(2026, 3, 2, 9, minute, 0, 0, time.UTC)
}

var SampleNews = []serialize.RawNewsJSON{
	{Symbol: "1001.T", Source: "kabutan", Headline: "生成AI向けサーバー受注", PublishedAt: newsTime(1)},
	{Symbol: "1001.T", Source: "yahoo", Headline: "AI platform launch", PublishedAt: newsTime(2)},
	{Symbol: "1002.T", Source: "yahoo", Headline: "AI data center contract", PublishedAt: newsTime(3)},
	{Symbol: "1003.T", Source: "kabutan", Headline: "協働ロボット新製品", PublishedAt: newsTime(4)},
	{Symbol: "1004.T", Source: "kabutan", Headline: "ロケット打ち上げ成功", PublishedAt: newsTime(5)},
	{Symbol: "1005.T", Source: "other", Headline: "Satellite constellation deal", PublishedAt: newsTime(6)},
	{Symbol: "1006.T", Source: "yahoo", Headline: "Dividend unchanged", PublishedAt: newsTime(7)},
}

type FixtureFiles struct {
	Snapshot string
	Universe string
	News     string
}

// WriteFixtures writes the sample snapshot, universe and news files
// into dir
func WriteFixtures(dir string) (*FixtureFiles, error) {
	files := &FixtureFiles{
		Snapshot: filepath.Join(dir, "snapshot.csv"),
		Universe: filepath.Join(dir, "universe.csv"),
		News:     filepath.Join(dir, "news.json"),
	}

	snapshot, err := gocsv.MarshalBytes(&SampleSnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(files.Snapshot, snapshot, 0o644); err != nil {
		return nil, err
	}

	members := []repository.UniverseMember{}
	for _, row := range SampleSnapshot {
		members = append(members, repository.UniverseMember{Symbol: row.Symbol, Name: row.Name})
	}
	universe, err := gocsv.MarshalBytes(&members)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal universe: %w", err)
	}
	if err := os.WriteFile(files.Universe, universe, 0o644); err != nil {
		return nil, err
	}

	news, err := json.Marshal(SampleNews)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(files.News, news, 0o644); err != nil {
		return nil, err
	}

	return files, nil
}
