package i18n

var messages = map[string]map[string]string{
	LocaleKO: {
		"error.bad_request":                     "잘못된 요청입니다.",
		"error.unauthorized":                    "로그인이 필요합니다.",
		"error.forbidden":                       "권한이 없습니다.",
		"error.not_found":                       "리소스를 찾을 수 없습니다.",
		"error.internal_error":                  "서버 오류가 발생했습니다.",
		"error.too_many_requests":               "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
		"error.invalid_id":                      "잘못된 ID 입니다.",
		"error.user_id_invalid":                 "잘못된 사용자 정보입니다.",
		"error.user_id_type_invalid":            "사용자 정보 형식이 올바르지 않습니다.",
		"error.store_unavailable":               "인증 저장소를 사용할 수 없습니다.",
		"error.auth_header_missing":             "인증 헤더가 없습니다.",
		"error.auth_header_invalid":             "인증 헤더 형식이 올바르지 않습니다.",
		"error.rate_limited":                    "요청이 너무 많습니다. %d초 후 다시 시도해 주세요.",
		"error.rate_limit_unavailable":          "요청 제한 기능을 사용할 수 없습니다.",
		"error.nickname_already_registered":     "이미 사용 중인 닉네임입니다.",
		"error.email_already_registered":        "이미 가입된 이메일입니다.",
		"error.email_send_failed":               "인증 메일 발송에 실패했습니다.",
		"error.email_service_disabled":          "메일 서비스가 비활성화되어 있습니다.",
		"error.email_recipient_rejected":        "수신할 수 없는 이메일 주소입니다.",
		"error.email_code_expired":              "인증 코드가 만료되었습니다.",
		"error.email_code_invalid":              "인증 코드가 일치하지 않습니다.",
		"error.email_certification_uncompleted": "이메일 인증이 완료되지 않았습니다.",
		"error.user_not_found":                  "존재하지 않는 회원입니다.",
		"error.account_pending_deletion":        "탈퇴 처리된 계정입니다.",
		"error.invalid_credentials":             "이메일 또는 비밀번호가 올바르지 않습니다.",
		"error.same_password":                   "새 비밀번호가 현재 비밀번호와 같습니다.",
		"error.invalid_password":                "비밀번호가 일치하지 않습니다.",
		"error.password_is_null":                "비밀번호를 입력해 주세요.",
		"error.refresh_token_expired":           "리프레시 토큰이 만료되었습니다.",
		"error.refresh_token_invalid":           "유효하지 않은 리프레시 토큰입니다.",
		"error.token_invalid":                   "유효하지 않은 토큰입니다.",
		"error.token_expired":                   "토큰이 만료되었습니다.",
		"error.invalid_email":                   "올바른 이메일 형식이 아닙니다.",
		"error.invalid_nickname":                "닉네임은 2자 이상 20자 이하여야 합니다.",
		"error.weak_password":                   "비밀번호가 보안 정책을 만족하지 않습니다.",
		"error.password_min_length":             "비밀번호는 최소 %d자 이상이어야 합니다.",
		"error.password_max_length":             "비밀번호는 최대 %d바이트까지 사용할 수 있습니다.",
		"error.password_require_upper":          "비밀번호에 대문자가 포함되어야 합니다.",
		"error.password_require_lower":          "비밀번호에 소문자가 포함되어야 합니다.",
		"error.password_require_number":         "비밀번호에 숫자가 포함되어야 합니다.",
		"error.password_require_special":        "비밀번호에 특수문자가 포함되어야 합니다.",
		"error.study_post_not_found":            "존재하지 않는 스터디 모집글입니다.",
		"error.study_post_invalid":              "스터디 모집글 정보가 올바르지 않습니다.",
		"error.study_post_not_recruiting":       "모집 중인 스터디가 아닙니다.",
		"error.comment_not_found":               "존재하지 않는 댓글입니다.",
		"error.comment_content_empty":           "내용을 입력해 주세요.",
		"error.study_post_full":                 "모집 인원이 모두 찼습니다.",
		"error.study_signup_not_found":          "존재하지 않는 스터디 신청입니다.",
		"error.study_signup_duplicate":          "이미 신청한 스터디입니다.",
		"error.study_signup_own_post":           "본인이 작성한 모집글에는 신청할 수 없습니다.",
		"error.study_signup_not_pending":        "이미 처리된 신청입니다.",
		"error.study_signup_status_invalid":     "신청 상태 값이 올바르지 않습니다.",
		"error.captcha_required":                "자동 입력 방지 문자를 입력해 주세요.",
		"error.captcha_invalid":                 "자동 입력 방지 문자가 일치하지 않습니다.",
		"error.captcha_unavailable":             "자동 입력 방지 기능을 사용할 수 없습니다.",
		"email.certification.subject":           "[DevOnOff] 이메일 인증 코드",
		"email.certification.body":              "인증 코드: %s\n\n%d분 이내에 입력해 주세요. 본인이 요청하지 않았다면 이 메일을 무시해 주세요.",
	},
	LocaleEN: {
		"error.bad_request":                     "Bad request.",
		"error.unauthorized":                    "Please sign in.",
		"error.forbidden":                       "Permission denied.",
		"error.not_found":                       "Resource not found.",
		"error.internal_error":                  "Internal server error.",
		"error.too_many_requests":               "Too many requests. Please try again later.",
		"error.invalid_id":                      "Invalid id.",
		"error.user_id_invalid":                 "Invalid user.",
		"error.user_id_type_invalid":            "Invalid user id type.",
		"error.store_unavailable":               "Credential store is unavailable.",
		"error.auth_header_missing":             "Authorization header is missing.",
		"error.auth_header_invalid":             "Authorization header is malformed.",
		"error.rate_limited":                    "Too many requests. Try again in %d seconds.",
		"error.rate_limit_unavailable":          "Rate limiting is unavailable.",
		"error.nickname_already_registered":     "Nickname is already in use.",
		"error.email_already_registered":        "Email is already registered.",
		"error.email_send_failed":               "Failed to send the certification email.",
		"error.email_service_disabled":          "Email service is disabled.",
		"error.email_recipient_rejected":        "The email address cannot receive mail.",
		"error.email_code_expired":              "Certification code has expired.",
		"error.email_code_invalid":              "Certification code does not match.",
		"error.email_certification_uncompleted": "Email certification is not completed.",
		"error.user_not_found":                  "User not found.",
		"error.account_pending_deletion":        "This account has been withdrawn.",
		"error.invalid_credentials":             "Invalid email or password.",
		"error.same_password":                   "New password must differ from the current one.",
		"error.invalid_password":                "Password does not match.",
		"error.password_is_null":                "Password is required.",
		"error.refresh_token_expired":           "Refresh token has expired.",
		"error.refresh_token_invalid":           "Invalid refresh token.",
		"error.token_invalid":                   "Invalid token.",
		"error.token_expired":                   "Token has expired.",
		"error.invalid_email":                   "Invalid email format.",
		"error.invalid_nickname":                "Nickname must be 2 to 20 characters.",
		"error.weak_password":                   "Password does not meet the security policy.",
		"error.password_min_length":             "Password must be at least %d characters.",
		"error.password_max_length":             "Password must be at most %d bytes.",
		"error.password_require_upper":          "Password must contain an uppercase letter.",
		"error.password_require_lower":          "Password must contain a lowercase letter.",
		"error.password_require_number":         "Password must contain a number.",
		"error.password_require_special":        "Password must contain a special character.",
		"error.study_post_not_found":            "Study post not found.",
		"error.study_post_invalid":              "Invalid study post.",
		"error.study_post_not_recruiting":       "The study is not recruiting.",
		"error.comment_not_found":               "Comment not found.",
		"error.comment_content_empty":           "Content is required.",
		"error.study_post_full":                 "The study is already full.",
		"error.study_signup_not_found":          "Study signup not found.",
		"error.study_signup_duplicate":          "You have already signed up for this study.",
		"error.study_signup_own_post":           "You cannot sign up for your own study post.",
		"error.study_signup_not_pending":        "The signup has already been processed.",
		"error.study_signup_status_invalid":     "Invalid signup status.",
		"error.captcha_required":                "Captcha is required.",
		"error.captcha_invalid":                 "Captcha does not match.",
		"error.captcha_unavailable":             "Captcha is unavailable.",
		"email.certification.subject":           "[DevOnOff] Email certification code",
		"email.certification.body":              "Your certification code: %s\n\nEnter it within %d minutes. If you did not request it, ignore this email.",
	},
}
