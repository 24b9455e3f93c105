package service

import (
	"testing"

	"github.com/devonoff/internal/config"
	"github.com/devonoff/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageCaptchaService(signIn, emailSend bool) *CaptchaService {
	return NewCaptchaService(config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes: config.CaptchaSceneConfig{
			SignIn:    signIn,
			EmailSend: emailSend,
		},
	})
}

func TestCaptchaDisabledScenesPass(t *testing.T) {
	var nilService *CaptchaService
	assert.NoError(t, nilService.Verify(constants.CaptchaSceneSignIn, CaptchaVerifyPayload{}))

	none := NewCaptchaService(config.CaptchaConfig{
		Scenes: config.CaptchaSceneConfig{SignIn: true, EmailSend: true},
	})
	assert.False(t, none.SceneEnabled(constants.CaptchaSceneSignIn))
	assert.NoError(t, none.Verify(constants.CaptchaSceneEmailSend, CaptchaVerifyPayload{}))
	_, err := none.GenerateImageChallenge()
	assert.ErrorIs(t, err, ErrCaptchaConfigInvalid)

	svc := newImageCaptchaService(true, false)
	assert.True(t, svc.SceneEnabled(constants.CaptchaSceneSignIn))
	assert.False(t, svc.SceneEnabled(constants.CaptchaSceneEmailSend))
	assert.False(t, svc.SceneEnabled("unknown"))
	assert.NoError(t, svc.Verify(constants.CaptchaSceneEmailSend, CaptchaVerifyPayload{}))
}

func TestCaptchaVerify(t *testing.T) {
	svc := newImageCaptchaService(true, true)

	err := svc.Verify(constants.CaptchaSceneSignIn, CaptchaVerifyPayload{CaptchaID: " "})
	assert.ErrorIs(t, err, ErrCaptchaRequired)

	challenge, err := svc.GenerateImageChallenge()
	require.NoError(t, err)
	require.NotEmpty(t, challenge.CaptchaID)
	assert.NotEmpty(t, challenge.ImageBase64)

	answer := svc.imageStore().Get(challenge.CaptchaID, false)
	require.NotEmpty(t, answer)

	err = svc.Verify(constants.CaptchaSceneSignIn, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong-" + answer})
	assert.ErrorIs(t, err, ErrCaptchaInvalid)

	// 校验失败也会清除答案
	err = svc.Verify(constants.CaptchaSceneSignIn, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer})
	assert.ErrorIs(t, err, ErrCaptchaInvalid)

	next, err := svc.GenerateImageChallenge()
	require.NoError(t, err)
	answer = svc.imageStore().Get(next.CaptchaID, false)
	payload := CaptchaVerifyPayload{CaptchaID: next.CaptchaID, CaptchaCode: " " + answer + " "}
	require.NoError(t, svc.Verify(constants.CaptchaSceneEmailSend, payload))
	assert.ErrorIs(t, svc.Verify(constants.CaptchaSceneEmailSend, payload), ErrCaptchaInvalid)
}

func TestCaptchaImageDefaults(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: " IMAGE ",
		Image:    config.CaptchaImageConfig{Length: 20, NoiseCount: -1},
	})
	assert.Equal(t, constants.CaptchaProviderImage, svc.cfg.Provider)
	assert.Equal(t, 5, svc.cfg.Image.Length)
	assert.Equal(t, 240, svc.cfg.Image.Width)
	assert.Equal(t, 0, svc.cfg.Image.NoiseCount)
	assert.Equal(t, 300, svc.cfg.Image.ExpireSeconds)
}
