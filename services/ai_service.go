package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ivywsw555/JustStart/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// ErrMalformedPlan 模型返回的拆解结果不是合法的任务数组
var ErrMalformedPlan = errors.New("计划生成结果格式不正确")

// AdviceFallback 建议内容解析失败时的降级文案
const AdviceFallback = "AI 似乎在思考人生，请重试..."

type AIService struct {
	model llms.Model
}

func NewAIService(client *DeepseekClient) *AIService {
	return &AIService{
		model: client.DsChat,
	}
}

// Advise 根据任务进度生成一条简短建议
// 模型回复不是合法 JSON 时返回降级文案，绝不让坏数据向外扩散
func (s *AIService) Advise(ctx context.Context, tasks []models.Task) (string, error) {
	type taskProgress struct {
		Title string  `json:"title"`
		Goal  float64 `json:"goal"`
		Done  float64 `json:"done"`
	}

	progress := make([]taskProgress, 0, len(tasks))
	for _, t := range tasks {
		progress = append(progress, taskProgress{
			Title: t.Title,
			Goal:  t.GoalMinutes,
			Done:  math.Round(t.CompletedMinutes),
		})
	}

	prompt, err := json.Marshal(map[string]interface{}{
		"currentTasks": progress,
		"currentTime":  time.Now().Format("15:04"),
	})
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(`你是一个严格但幽默的职场教练。用户正在为跳槽做准备。
请根据用户的任务列表和进度，给出一条简短、有力、具体的建议（20-40字）。
如果用户进度落后，督促他。如果做得好，夸奖他。
请用 JSON 格式返回: { "advice": "你的建议内容" }`)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(string(prompt))},
		},
	}

	response, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("生成建议失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("未生成有效内容")
	}

	var parsed struct {
		Advice string `json:"advice"`
	}
	if err := json.Unmarshal([]byte(extractJSON(response.Choices[0].Content)), &parsed); err != nil || parsed.Advice == "" {
		return AdviceFallback, nil
	}
	return parsed.Advice, nil
}

// DecomposeGoal 把一个模糊目标拆解为 2-4 个可执行子任务
// 返回结果先做形状校验（任务数组、标题非空、时长为正），校验不过不产出任何任务
func (s *AIService) DecomposeGoal(ctx context.Context, goal string) ([]models.PlanTask, error) {
	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(`你是一个专业的项目经理。用户输入一个模糊的学习目标，你需要将其拆解为 2-4 个具体的、可执行的子任务。
每个任务应该包含：title (任务名), minutes (建议时长，整数), color (从 bg-blue-500, bg-indigo-500, bg-emerald-500, bg-amber-500, bg-rose-500 中随机选一个)。
返回格式必须是纯 JSON 数组: [{ "title": "xxx", "minutes": 30, "color": "bg-xxx" }, ...]`)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(`用户的目标是: "%s"。请拆解。`, goal))},
		},
	}

	response, err := s.model.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return nil, fmt.Errorf("生成计划失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, ErrMalformedPlan
	}

	var plan []models.PlanTask
	if err := json.Unmarshal([]byte(extractJSON(response.Choices[0].Content)), &plan); err != nil {
		return nil, ErrMalformedPlan
	}
	if len(plan) == 0 {
		return nil, ErrMalformedPlan
	}
	for _, task := range plan {
		if strings.TrimSpace(task.Title) == "" || task.Minutes <= 0 {
			return nil, ErrMalformedPlan
		}
	}
	return plan, nil
}

// extractJSON 剥掉模型偶尔带上的 markdown 代码围栏
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
