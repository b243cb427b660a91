package i18n

// KoMessages 韩语消息目录
// KoMessages Korean message catalog
var KoMessages = map[string]string{
	// 잠금 화면
	"lock.title":  "감정 일기장",
	"lock.prompt": "비밀번호를 입력하세요",
	"lock.wrong":  "비밀번호가 틀렸습니다. 다시 시도하세요",

	// 기분 선택
	"mood.title":   "오늘 기분이 어떠신가요?",
	"mood.good":    "좋음",
	"mood.neutral": "보통",
	"mood.bad":     "나쁨",

	// 감정 (단일 기록)
	"emotion.joy":           "기쁨",
	"emotion.sadness":       "슬픔",
	"emotion.anger":         "화남",
	"emotion.anxiety":       "불안",
	"emotion.calm":          "평온",
	"emotion.exhaustion":    "지침",
	"emotion.loneliness":    "외로움",
	"emotion.embarrassment": "당황",
	"emotion.unspecified":   "선택 안함",

	// 대화 화면
	"chat.title":       "오늘의 일기",
	"chat.placeholder": "오늘 하루를 적어보세요... (Enter로 전송)",
	"chat.waiting":     "듣고 있어요...",
	"chat.end_hint":    "ctrl+d 일기 마치기",
	"chat.empty":       "내용을 입력해 주세요",
	"chat.budget":      "오늘의 토큰을 모두 사용했어요.",

	// 요약 화면
	"summary.title":     "일기 요약",
	"summary.keywords":  "키워드",
	"summary.actions":   "해볼 만한 일",
	"summary.pick_hint": "키워드를 최대 %d개 고르세요 (스페이스로 선택)",
	"summary.save":      "일기 저장",
	"summary.discard":   "일기 버리기",
	"summary.back":      "다시 쓰기",
	"summary.saved":     "일기가 저장되었습니다",
	"summary.discarded": "일기가 휴지통으로 이동했습니다",

	// 일기 목록
	"list.title": "지난 일기",
	"list.empty": "아직 일기가 없어요. 첫 일기를 써보세요!",

	// 달력
	"calendar.title":     "감정 달력",
	"calendar.no_record": "기록 없음",
	"calendar.stats":     "이번 달",

	// 휴지통
	"trash.title":    "휴지통",
	"trash.empty":    "휴지통이 비어 있어요",
	"trash.restore":  "되돌리기",
	"trash.delete":   "영구 삭제",
	"trash.restored": "일기가 복원되었습니다",
	"trash.note":     "여기 있는 일기는 %d일 후에 삭제됩니다",

	// 상태 / 오류
	"status.thinking": "생각 중...",
	"status.ready":    "준비됨",
	"error.provider":  "서버 오류: %s",
	"error.config":    "설정 오류: %s",

	// 단축키
	"keys.quit":   "ctrl+c 종료",
	"keys.tab":    "tab 화면 전환",
	"keys.select": "enter 선택",
	"keys.back":   "esc 뒤로",
}
