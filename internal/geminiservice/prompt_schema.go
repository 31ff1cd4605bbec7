package geminiservice

import (
	"fmt"
	"strings"
)

/* =================================================================================
							PROMPT INPUT TYPES
=================================================================================*/

// WorkoutParams carries the caller's workout inputs after defaults are applied.
// Values are embedded into the prompt verbatim.
type WorkoutParams struct {
	Level       string // "beginner", "intermediate", ...
	Frequency   string // sessions per week, integer-like
	Goal        string // lose_weight, gain_muscle, maintain_weight
	Gender      string
	PastSummary string
}

// MealParams carries the caller's nutrition inputs after defaults are applied.
type MealParams struct {
	DailyCalories string // kcal, embedded verbatim
	Protein       float64
	Fat           float64
	Carbs         float64
	MealCount     string
	IsPremium     bool
	PastSummary   string
}

/* =================================================================================
						PROMPT ENGINEERING
	Caller text is interpolated without escaping. A history summary can steer
	the model; this is accepted exposure for a per-user planning prompt.
=================================================================================*/

// WorkoutPromptTemplate takes level, frequency, goal, gender and the history paragraph.
const WorkoutPromptTemplate = `あなたは、筋力トレーニングとフィットネスの専門家です。以下の情報に基づいて、実践的で安全、かつ効果的な筋トレプランを週単位で生成してください。
ユーザーの目標達成に最大限貢献するプランを作成し、専門知識を活かしてください。

- トレーニングレベル: %s
- 週のトレーニング頻度: %s回
- 目標: %s（lose_weight:減量, gain_muscle:増量, maintain_weight:維持）
- 性別: %s
%s
### 生成する筋トレプランのフォーマット:
週のトレーニング頻度に応じた各日のトレーニング内容を明確に分けて提示してください。
各エクササイズについて、エクササイズ名、推奨セット数、推奨レップ数（または時間）を具体的に記述してください。
初心者の場合は全身運動や基本的な動きを中心に、中級者以上は部位分割法や複合的な動きを含めてください。
目標（減量なら高レップ・短休憩、増量なら中レップ・長休憩など）に沿って、レップ数やセット数を調整してください。

例:
[
    {
        "day": "Day 1",
        "focus": "胸・三頭筋",
        "exercises": [
            {"name": "ベンチプレス", "sets": 3, "reps": "8-12"},
            {"name": "インクラインダンベルプレス", "sets": 3, "reps": "10-15"},
            {"name": "トライセプスエクステンション", "sets": 3, "reps": "10-15"}
        ]
    },
    {
        "day": "Day 2",
        "focus": "背中・二頭筋",
        "exercises": [
            {"name": "懸垂（アシスト可）", "sets": 3, "reps": "限界回数"},
            {"name": "ベントオーバーロー", "sets": 3, "reps": "8-12"},
            {"name": "ハンマーカール", "sets": 3, "reps": "10-15"}
        ]
    },
    {
        "day": "Day 3",
        "focus": "脚・肩",
        "exercises": [
            {"name": "バーベルスクワット", "sets": 3, "reps": "6-10"},
            {"name": "レッグプレス", "sets": 3, "reps": "10-15"},
            {"name": "オーバーヘッドプレス", "sets": 3, "reps": "8-12"},
            {"name": "サイドレイズ", "sets": 3, "reps": "12-18"}
        ]
    },
    {
        "day": "Rest Day",
        "focus": "アクティブレスト",
        "exercises": [
            {"name": "ウォーキング", "duration": "30分"},
            {"name": "ストレッチ", "duration": "15分"}
        ]
    }
]
上記例のように、トレーニングがない日は「Rest Day」としてアクティブレストの内容を含めることも可能です。
必ずJSON形式で出力し、他のテキストや説明は含めないでください。
`

// WorkoutHistoryTemplate is appended when a past workout summary is supplied.
const WorkoutHistoryTemplate = `
ユーザーの過去のワークアウト履歴の要約:
%s
この履歴を参考に、ユーザーの現在のフィットネスレベルや好みを考慮した、よりパーソナライズされたプランを提案してください。
`

// MealPromptTemplate takes calories, protein/fat/carbs percentages, meal count,
// premium label and the history paragraph.
const MealPromptTemplate = `あなたは、栄養学と健康的な食生活の専門家です。以下の情報に基づいて、1日分の食事プランを具体的に生成してください。
ユーザーが美味しく健康的な食生活を送れるような、実践的な提案をしてください。

- 1日の目標カロリー: %skcal
- PFC比率: タンパク質%d%%, 脂質%d%%, 炭水化物%d%%
- 1日の食事回数: %s回
- プレミアム会員: %s
%s
### 生成する食事プランのフォーマット:
各食事（朝食、昼食、夕食、間食など）について、推奨される具体的な料理名や食材の組み合わせをリストアップしてください。
各食事のおおよその推定タンパク質(g)、脂質(g)、炭水化物(g)、カロリー(kcal)を提示してください。
プレミアム会員の場合は、より多様で詳細な食材の組み合わせ、特定の栄養素に配慮した調理法、アレルギー対応、ビーガン・ベジタリアンなどの選択肢、または簡単な調理のヒントを含めても構いません。
無料会員の場合は、基本的なバランスの取れた、手軽に準備できる食事を提案してください。

例:
[
    {
        "meal_name": "朝食",
        "dishes": ["プロテイン入りオートミール（牛乳または豆乳、ベリー、少量のナッツ）", "ゆで卵 1個"],
        "estimated_protein": 35, "estimated_fat": 15, "estimated_carbs": 50, "estimated_calories": 480
    },
    {
        "meal_name": "昼食",
        "dishes": ["鶏むね肉と野菜のグリル（オリーブオイル少量）", "玄米 150g", "ワカメと豆腐の味噌汁"],
        "estimated_protein": 45, "estimated_fat": 20, "estimated_carbs": 60, "estimated_calories": 600
    },
    {
        "meal_name": "間食",
        "dishes": ["ギリシャヨーグルト（無糖）", "リンゴ 1/2個"],
        "estimated_protein": 15, "estimated_fat": 5, "estimated_carbs": 25, "estimated_calories": 200
    },
    {
        "meal_name": "夕食",
        "dishes": ["鮭の塩焼き", "蒸しブロッコリー", "きのこと野菜のソテー"],
        "estimated_protein": 30, "estimated_fat": 18, "estimated_carbs": 30, "estimated_calories": 450
    }
]
必ずJSON形式で出力し、他のテキストや説明は含めないでください。
`

// MealHistoryTemplate is appended when a past meal summary is supplied.
const MealHistoryTemplate = `
ユーザーの過去の食事履歴の要約:
%s
この履歴を参考に、ユーザーの食の好み、アレルギー、または特定の食材の利用頻度などを考慮し、
よりパーソナライズされた食事プランを提案してください。
`

const (
	premiumYes = "はい"
	premiumNo  = "いいえ"
)

// BuildWorkoutPrompt renders the workout prompt.
func BuildWorkoutPrompt(p WorkoutParams) string {
	return fmt.Sprintf(
		WorkoutPromptTemplate,
		p.Level,
		p.Frequency,
		p.Goal,
		p.Gender,
		historyPart(WorkoutHistoryTemplate, p.PastSummary),
	)
}

// BuildMealPrompt renders the meal prompt. Ratios become whole percentages by
// truncation, so 0.29 renders as 28%.
func BuildMealPrompt(p MealParams) string {
	return fmt.Sprintf(
		MealPromptTemplate,
		p.DailyCalories,
		percent(p.Protein),
		percent(p.Fat),
		percent(p.Carbs),
		p.MealCount,
		premiumLabel(p.IsPremium),
		historyPart(MealHistoryTemplate, p.PastSummary),
	)
}

func historyPart(template, summary string) string {
	if summary == "" {
		return ""
	}
	return fmt.Sprintf(template, summary)
}

// percent truncates toward zero.
func percent(fraction float64) int {
	return int(fraction * 100)
}

func premiumLabel(isPremium bool) string {
	if isPremium {
		return premiumYes
	}
	return premiumNo
}

// promptPreview shortens a prompt for debug logging.
func promptPreview(prompt string) string {
	const maxRunes = 120
	runes := []rune(strings.Join(strings.Fields(prompt), " "))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + "..."
}
