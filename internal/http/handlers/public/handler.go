package public

import "github.com/devonoff/internal/provider"

// Handler 用户侧接口处理器入口
// 说明：覆盖认证、个人账号与学习招募相关 API。
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
