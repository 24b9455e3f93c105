package public

import (
	"github.com/devonoff/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondAuthError(c, err, captchaErrorRules)
		return
	}
	response.Success(c, challenge)
}
