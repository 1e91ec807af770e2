package oracle

import (
	"context"
	"fmt"
	"strings"
)

// Client is the interface for relevance oracle providers
type Client interface {
	// Classify asks which candidate titles are related to the promotion
	// target and returns the model's raw response. The response is
	// expected to contain a JSON array of titles but is untrusted free
	// text; parsing and validation are the caller's job.
	Classify(ctx context.Context, candidates []string, target string) (string, error)
}

// buildSystemPrompt creates the system instruction for the model.
// Relevance is semantic, not literal: same industry, same user segment,
// or same functional need as the promotion target.
func buildSystemPrompt() string {
	return `您是一个专业的内容分析师。请从给定的标题列表中找出与推广目标在语义、行业或目标用户群体上相关的标题。

判断相关性的标准：
1. 行业相关性：属于同一个行业领域（如教育培训、求职就业、考试备考等）
2. 目标用户群体相关：面向相似的用户群体（如求职者、备考人员、职场新人等）
3. 功能相关性：提供类似的服务或解决相似的问题（如技能提升、职业规划、考试指导等）

不要只进行字面量匹配。请返回相关的标题列表，格式为简单的JSON数组，不需要其他解释：
["相关标题1", "相关标题2", ...]

如果没有找到相关标题，返回空数组：[]`
}

// buildUserPrompt combines the promotion target and the candidate list
func buildUserPrompt(candidates []string, target string) string {
	return fmt.Sprintf("推广目标: %s\n\n标题列表:\n- %s", target, strings.Join(candidates, "\n- "))
}
