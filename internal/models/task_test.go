package models

import (
	"testing"
)

func steps(flags ...bool) []Step {
	s := make([]Step, len(flags))
	for i, done := range flags {
		s[i] = Step{Description: "step", Done: done, Order: i}
	}
	return s
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		steps   []Step
		want    Status
	}{
		{"无步骤保持原状态", StatusInProgress, nil, StatusInProgress},
		{"无步骤保持已完成", StatusDone, []Step{}, StatusDone},
		{"全部完成", StatusNotStarted, steps(true, true, true), StatusDone},
		{"部分完成", StatusNotStarted, steps(true, false), StatusInProgress},
		{"全部未完成", StatusDone, steps(false, false), StatusNotStarted},
		{"单步骤完成", StatusNotStarted, steps(true), StatusDone},
		{"单步骤未完成", StatusInProgress, steps(false), StatusNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.current, tt.steps)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveStatusToggleTwiceRestores(t *testing.T) {
	// 连续切换同一步骤两次应恢复原状态
	s := steps(true, false, false)
	original := DeriveStatus(StatusNotStarted, s)

	s[1].Done = !s[1].Done
	intermediate := DeriveStatus(original, s)
	s[1].Done = !s[1].Done
	restored := DeriveStatus(intermediate, s)

	if restored != original {
		t.Errorf("两次切换后状态 = %v, 期望恢复为 %v", restored, original)
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusDone.Label() != "Concluída" {
		t.Errorf("StatusDone.Label() = %q", StatusDone.Label())
	}
	if StatusNotStarted.Label() != "Não Iniciado" {
		t.Errorf("StatusNotStarted.Label() = %q", StatusNotStarted.Label())
	}
	if Status("foo").Label() != "foo" {
		t.Errorf("未知状态应原样返回")
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusInProgress, StatusDone} {
		if !s.IsValid() {
			t.Errorf("%v 应为合法状态", s)
		}
	}
	if Status("finished").IsValid() {
		t.Error("finished 不应为合法状态")
	}
}

func TestGetProgress(t *testing.T) {
	task := Task{Steps: steps(true, false, true, false)}
	p := task.GetProgress()
	if p.Total != 4 || p.Done != 2 || p.Percent != 50 {
		t.Errorf("GetProgress() = %+v", p)
	}

	empty := Task{}
	if p := empty.GetProgress(); p.Total != 0 || p.Percent != 0 {
		t.Errorf("空任务进度应为零值, got %+v", p)
	}
}
