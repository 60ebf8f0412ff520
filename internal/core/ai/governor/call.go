package governor

import (
	"context"
	"time"

	"recipe-finder/internal/core/recipe"
)

// Decision Begin 的判斷結果
type Decision string

const (
	DecisionCached    Decision = "cached"
	DecisionCooldown  Decision = "cooldown"
	DecisionInvoked   Decision = "invoked"
	DecisionDisabled  Decision = "disabled"
	DecisionCancelled Decision = "cancelled"
)

// Outcome 一次等待的結果，TimedOut 時 Response 與 Err 皆為空
type Outcome struct {
	Response *recipe.GeneratedList
	Err      error
	TimedOut bool
}

// Call 已啟動（或被略過）的 AI 呼叫
// 等待端逾時放棄不會取消背景呼叫，其副作用仍會完成
type Call struct {
	decision Decision
	cached   *recipe.GeneratedList

	done     chan struct{}
	response *recipe.GeneratedList
	err      error
}

func skippedCall(d Decision) *Call {
	return &Call{decision: d}
}

func cachedCall(resp *recipe.GeneratedList) *Call {
	return &Call{decision: DecisionCached, cached: resp}
}

func liveCall() *Call {
	return &Call{decision: DecisionInvoked, done: make(chan struct{})}
}

// finish 只能由背景 goroutine 呼叫一次
func (c *Call) finish(resp *recipe.GeneratedList, err error) {
	c.response, c.err = resp, err
	close(c.done)
}

// Decision 判斷結果
func (c *Call) Decision() Decision { return c.decision }

// Live 是否真的發出了 AI 呼叫
func (c *Call) Live() bool { return c.decision == DecisionInvoked }

// Done 背景呼叫結束時關閉，非 live 呼叫回傳已關閉的 channel
func (c *Call) Done() <-chan struct{} {
	if c.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.done
}

// Await 與 timeout 競賽，先到者勝；ctx 結束視同逾時
// 可對同一個 Call 重複呼叫（例如延長等待）
func (c *Call) Await(ctx context.Context, timeout time.Duration) Outcome {
	switch c.decision {
	case DecisionCached:
		return Outcome{Response: c.cached}
	case DecisionInvoked:
	default:
		return Outcome{}
	}

	// 已完成就不必啟動計時器
	select {
	case <-c.done:
		return Outcome{Response: c.response, Err: c.err}
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.done:
		return Outcome{Response: c.response, Err: c.err}
	case <-timer.C:
		return Outcome{TimedOut: true}
	case <-ctx.Done():
		return Outcome{TimedOut: true}
	}
}
