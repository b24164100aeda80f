package mailer

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"

	"github.com/maycoffee/maycoffee-api/internal/logger"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background: #f6f3ef; padding: 24px;">
  <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px;">
    <h2 style="color: #4a2c2a; margin-top: 0;">May Coffee</h2>
    %s
    <p style="color: #999; font-size: 12px; margin-top: 32px;">May Coffee &bull; maycoffee.vn</p>
  </div>
</body>
</html>`

func wrap(body string) string {
	return fmt.Sprintf(layout, body)
}

func verifyEmailBody(name, code, verifyURL, locale string) string {
	if locale == "en" {
		return wrap(fmt.Sprintf(`
    <p>Hi %s,</p>
    <p>Your verification code is:</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
    <p>The code expires in 10 minutes. You can also confirm directly:</p>
    <p><a href="%s">Verify my email</a></p>
    <p>If you did not request this, please ignore this email.</p>`,
			html.EscapeString(name), html.EscapeString(code), verifyURL))
	}
	return wrap(fmt.Sprintf(`
    <p>Chào %s,</p>
    <p>Mã xác nhận của bạn là:</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
    <p>Mã sẽ hết hạn sau 10 phút. Bạn cũng có thể xác nhận trực tiếp:</p>
    <p><a href="%s">Xác nhận email</a></p>
    <p>Nếu bạn không yêu cầu, hãy bỏ qua email này.</p>`,
		html.EscapeString(name), html.EscapeString(code), verifyURL))
}

func adminInvitationBody(email, registerURL string) string {
	return wrap(fmt.Sprintf(`
    <p>Chào %s,</p>
    <p>Bạn được mời làm quản trị viên của May Coffee. Quyền admin sẽ được cấp
    ngay sau khi bạn đăng ký và xác nhận email với địa chỉ này.</p>
    <p><a href="%s">Đăng ký tài khoản</a></p>`,
		html.EscapeString(email), registerURL))
}

func adminPromotionBody(name, adminURL string) string {
	return wrap(fmt.Sprintf(`
    <p>Chào %s,</p>
    <p>Bạn đã trở thành quản trị viên của May Coffee.</p>
    <p><a href="%s">Vào trang quản trị</a></p>`,
		html.EscapeString(name), adminURL))
}

func accountDeletedBody(name, reason string) string {
	return wrap(fmt.Sprintf(`
    <p>Chào %s,</p>
    <p>Tài khoản của bạn tại May Coffee đã bị xóa bởi quản trị viên.</p>
    <p>Lý do: %s</p>`,
		html.EscapeString(name), html.EscapeString(reason)))
}

func feedbackThanksBody(name string) string {
	return wrap(fmt.Sprintf(`
    <p>Chào %s,</p>
    <p>Cảm ơn bạn đã gửi feedback cho May Coffee. Feedback sẽ hiển thị công
    khai sau khi được duyệt.</p>`,
		html.EscapeString(name)))
}

func eventAnnouncementBody(title, descriptionMarkdown, schedule, eventsURL string) string {
	var desc bytes.Buffer
	if err := goldmark.Convert([]byte(descriptionMarkdown), &desc); err != nil {
		logger.Log.Warn("failed to render event description", "error", err)
		desc.Reset()
		desc.WriteString("<p>" + html.EscapeString(descriptionMarkdown) + "</p>")
	}

	scheduleLine := ""
	if schedule != "" {
		scheduleLine = fmt.Sprintf(`<p style="font-weight: bold;">%s</p>`, html.EscapeString(schedule))
	}

	return wrap(fmt.Sprintf(`
    <h3 style="color: #4a2c2a;">%s</h3>
    %s
    %s
    <p><a href="%s">Xem tất cả sự kiện</a></p>`,
		html.EscapeString(title), scheduleLine, desc.String(), eventsURL))
}
