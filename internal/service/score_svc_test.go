package service

import (
	"math"
	"testing"

	"github.com/tubepulse/standout/internal/model"
)

func TestScore_Formula(t *testing.T) {
	// 0.4 * 1000/30 + 0.3 * 0 + 0.3 * 1000/1000 = 13.633...
	v := model.Video{Views: 1000, AgeDays: 30}
	if got := Score(v); got != 13.63 {
		t.Errorf("score = %.4f, want 13.63", got)
	}
}

func TestScore_EngagementTerm(t *testing.T) {
	// 0.4 * 1000/10 + 0.3 * 6.0 * 100 + 0.3 * 1 = 40 + 180 + 0.3
	v := model.Video{Views: 1000, AgeDays: 10, EngagementRate: 6.0}
	if got := Score(v); got != 220.3 {
		t.Errorf("score = %.4f, want 220.30", got)
	}
}

func TestScore_ZeroAgeClampedToOneDay(t *testing.T) {
	for _, views := range []int64{0, 1, 999, 15000, 2_000_000} {
		day0 := Score(model.Video{Views: views, AgeDays: 0, EngagementRate: 2.5})
		day1 := Score(model.Video{Views: views, AgeDays: 1, EngagementRate: 2.5})
		if day0 != day1 {
			t.Errorf("views=%d: age 0 score %.2f != age 1 score %.2f", views, day0, day1)
		}
	}
}

func TestScore_MonotoneInViews(t *testing.T) {
	for _, age := range []int{1, 2, 7, 30, 365} {
		prev := -1.0
		for views := int64(0); views <= 50000; views += 250 {
			got := Score(model.Video{Views: views, AgeDays: age, EngagementRate: 3.2})
			if got < prev {
				t.Fatalf("age=%d views=%d: score %.2f < previous %.2f", age, views, got, prev)
			}
			prev = got
		}
	}
}

func TestScore_RoundedToTwoDecimals(t *testing.T) {
	got := Score(model.Video{Views: 777, AgeDays: 3, EngagementRate: 1.234567})
	if math.Abs(got*100-math.Round(got*100)) > 1e-9 {
		t.Errorf("score %v has more than 2 decimals", got)
	}
}

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name                   string
		views, likes, comments int64
		want                   float64
	}{
		{"typical", 1000, 50, 10, 6.0},
		{"no interaction", 1000, 0, 0, 0},
		{"zero views uses 1", 0, 5, 0, 500},
		{"all zero", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementRate(tt.views, tt.likes, tt.comments); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanScore(t *testing.T) {
	if got := MeanScore(nil); got != 0 || math.IsNaN(got) {
		t.Errorf("empty mean = %v, want 0", got)
	}
	if got := MeanScore([]model.Video{}); got != 0 {
		t.Errorf("empty mean = %v, want 0", got)
	}

	videos := []model.Video{{Score: 10}, {Score: 20}, {Score: 30.01}}
	if got := MeanScore(videos); got != 20 {
		t.Errorf("mean = %v, want 20", got)
	}
}

func TestVsMeanPct(t *testing.T) {
	tests := []struct {
		name        string
		score, mean float64
		want        float64
	}{
		{"zero mean", 500, 0, 0},
		{"negative mean", 500, -1, 0},
		{"double", 40, 20, 100},
		{"above", 30, 20, 50},
		{"below", 15, 20, -25},
		{"one decimal", 10, 3, 233.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VsMeanPct(tt.score, tt.mean); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
