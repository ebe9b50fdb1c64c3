package telegram

import (
	"fmt"
	"html"
	"time"

	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
)

// EscapeHTML escapes HTML special characters for safe Telegram message formatting
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Bot message templates (Russian, HTML format)
const (
	// MsgPaymentCanceled is the generic decline notice, used when the
	// provider's cancellation reason fits no specific category.
	MsgPaymentCanceled = "❌ <b>Платёж не прошёл</b>\n\n" +
		"Банк отклонил оплату или она была отменена.\n" +
		"Попробуйте оплатить ещё раз."

	// MsgPaymentNoFunds is sent when the charge was declined for
	// insufficient funds.
	MsgPaymentNoFunds = "❌ <b>Платёж не прошёл</b>\n\n" +
		"На карте недостаточно средств.\n" +
		"Пополните счёт или оплатите другой картой."

	// MsgPaymentAbandoned is sent when the payment link expired before
	// the checkout was completed.
	MsgPaymentAbandoned = "⌛ <b>Оплата не завершена</b>\n\n" +
		"Время на оплату вышло, платёж отменён.\n" +
		"Оформите подписку заново, чтобы получить новую ссылку."

	// MsgRenewalFailed is sent after an unsuccessful automatic renewal
	// attempt while retries remain.
	MsgRenewalFailed = "⚠️ <b>Не удалось продлить подписку</b>\n\n" +
		"Автосписание не прошло. Мы попробуем ещё раз позже.\n" +
		"Проверьте, что на карте достаточно средств."

	// MsgRenewalExhausted is sent once the automatic renewal retry ceiling
	// is reached and auto-renewal is switched off.
	MsgRenewalExhausted = "🚫 <b>Автопродление отключено</b>\n\n" +
		"Несколько попыток списания подряд не прошли.\n" +
		"Чтобы вернуться в канал, оформите подписку заново."

	// MsgAccessRevoked is the refund notice used when the refunded amount
	// is unknown.
	MsgAccessRevoked = "↩️ <b>Платёж возвращён</b>\n\n" +
		"Доступ к каналу закрыт. Если это ошибка, напишите в поддержку."
)

// FormatPaymentCanceled picks the decline notice for the cancellation
// category.
func FormatPaymentCanceled(category vo.CancellationCategory) string {
	switch category {
	case vo.CancellationInsufficientFunds:
		return MsgPaymentNoFunds
	case vo.CancellationAbandoned:
		return MsgPaymentAbandoned
	default:
		return MsgPaymentCanceled
	}
}

// FormatAccessRevoked builds the refund notice with the returned amount.
func FormatAccessRevoked(refunded vo.Money) string {
	if !refunded.IsPositive() {
		return MsgAccessRevoked
	}
	return fmt.Sprintf(
		"↩️ <b>Платёж возвращён</b>\n\n"+
			"Вам возвращено <b>%s</b>.\n"+
			"Доступ к каналу закрыт. Если это ошибка, напишите в поддержку.",
		refunded.String(),
	)
}

// FormatPaymentSuccess builds the activation message with the personal
// invite link and the paid-through date.
func FormatPaymentSuccess(inviteURL string, expiresAt time.Time) string {
	if inviteURL == "" {
		return fmt.Sprintf(
			"✅ <b>Оплата прошла успешно</b>\n\n"+
				"Подписка активна до <b>%s</b>.\n\n"+
				"К сожалению, не удалось создать ссылку для входа в канал. "+
				"Напишите в поддержку, и мы добавим вас вручную.",
			expiresAt.Format("02.01.2006 15:04 MST"),
		)
	}
	return fmt.Sprintf(
		"✅ <b>Оплата прошла успешно</b>\n\n"+
			"Подписка активна до <b>%s</b>.\n\n"+
			"Ваша персональная ссылка для входа в канал:\n%s",
		expiresAt.Format("02.01.2006 15:04 MST"),
		EscapeHTML(inviteURL),
	)
}

// FormatExpiringSoon builds the advance renewal reminder.
func FormatExpiringSoon(expiresAt time.Time, autoRenewal bool) string {
	if autoRenewal {
		return fmt.Sprintf(
			"⏳ <b>Подписка скоро закончится</b>\n\n"+
				"Доступ оплачен до <b>%s</b>.\n"+
				"Продление спишется автоматически, ничего делать не нужно.",
			expiresAt.Format("02.01.2006 15:04 MST"),
		)
	}
	return fmt.Sprintf(
		"⏳ <b>Подписка скоро закончится</b>\n\n"+
			"Доступ оплачен до <b>%s</b>.\n"+
			"Продлите подписку, чтобы не потерять доступ к каналу.",
		expiresAt.Format("02.01.2006 15:04 MST"),
	)
}

// FormatExpired builds the one-time expiry notice.
func FormatExpired(expiredAt time.Time) string {
	return fmt.Sprintf(
		"🔒 <b>Подписка закончилась</b>\n\n"+
			"Доступ к каналу закрыт %s.\n"+
			"Оформите подписку заново, чтобы вернуться.",
		expiredAt.Format("02.01.2006"),
	)
}
