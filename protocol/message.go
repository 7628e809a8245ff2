// Package protocol 服务端与两个客户端之间的行协议。每条消息是一行文本，
// 字段以 '|' 分隔，第一个字段为消息类型
package protocol

// Kind 每行第一个字段携带的类型标记
type Kind string

const (
	KindJoin            Kind = "JOIN"
	KindChat            Kind = "CHAT"
	KindRoleAssigned    Kind = "ROLE_ASSIGNED"
	KindError           Kind = "ERROR"
	KindInput           Kind = "INPUT"
	KindStateUpdate     Kind = "STATE_UPDATE"
	KindLevelData       Kind = "LEVEL_DATA"
	KindLevelVote       Kind = "LEVEL_VOTE"
	KindRestartRequest  Kind = "RESTART_REQUEST"
	KindRestartOffer    Kind = "RESTART_OFFER"
	KindRestartResponse Kind = "RESTART_RESPONSE"
)

// ERROR 消息中的错误码
const (
	ErrCodeBadMessage      = "BAD_MESSAGE"
	ErrCodeFull            = "FULL"
	ErrCodeVoteDenied      = "VOTE_DENIED"
	ErrCodeBadVote         = "BAD_VOTE"
	ErrCodeVoteFail        = "VOTE_FAIL"
	ErrCodeRestartDeclined = "RESTART_DECLINED"
	ErrCodePlayerLeft      = "PLAYER_LEFT"
)

// AutoLevel 投票或偏好中表示“不指定关卡”
const AutoLevel = -1

// InputType INPUT 消息携带的动作
type InputType string

const (
	InputMoveUp    InputType = "MOVE_UP"
	InputMoveDown  InputType = "MOVE_DOWN"
	InputMoveLeft  InputType = "MOVE_LEFT"
	InputMoveRight InputType = "MOVE_RIGHT"
	InputAction    InputType = "ACTION"
	InputStop      InputType = "STOP"
)

func parseInputType(s string) (InputType, bool) {
	switch t := InputType(s); t {
	case InputMoveUp, InputMoveDown, InputMoveLeft, InputMoveRight, InputAction, InputStop:
		return t, true
	}
	return "", false
}

// Message 编解码器能理解的封闭消息集合，只有本包类型实现它
type Message interface {
	Kind() Kind
	sealed()
}

// Join 向服务端申请角色。PreferredRole 为 "FISH"、"CRAB" 或空；
// 无偏好时 PreferredLevel 须为 AutoLevel，零值 0 表示第 0 关。
// Encode 会大写化角色，无法识别的角色按空处理
type Join struct {
	Name           string
	PreferredRole  string
	PreferredLevel int
}

type Chat struct {
	From string
	Text string
}

type RoleAssigned struct {
	PlayerID string
	Role     string
}

type Error struct {
	Code string
	Text string
}

type Input struct {
	ClientID string
	Type     InputType
}

// StateUpdate 携带快照负载，见 FormatSnapshot
type StateUpdate struct {
	Payload string
}

// LevelData 原样下发关卡地形，每行一个字段
type LevelData struct {
	Width  int
	Height int
	Rows   []string
}

// LevelVote 关卡下标，AutoLevel 表示“下一关”
type LevelVote struct {
	ClientID   string
	LevelIndex int
}

type RestartRequest struct {
	ClientID string
}

type RestartOffer struct {
	FromName string
}

type RestartResponse struct {
	ClientID string
	Accepted bool
}

func (*Join) Kind() Kind            { return KindJoin }
func (*Chat) Kind() Kind            { return KindChat }
func (*RoleAssigned) Kind() Kind    { return KindRoleAssigned }
func (*Error) Kind() Kind           { return KindError }
func (*Input) Kind() Kind           { return KindInput }
func (*StateUpdate) Kind() Kind     { return KindStateUpdate }
func (*LevelData) Kind() Kind       { return KindLevelData }
func (*LevelVote) Kind() Kind       { return KindLevelVote }
func (*RestartRequest) Kind() Kind  { return KindRestartRequest }
func (*RestartOffer) Kind() Kind    { return KindRestartOffer }
func (*RestartResponse) Kind() Kind { return KindRestartResponse }

func (*Join) sealed()            {}
func (*Chat) sealed()            {}
func (*RoleAssigned) sealed()    {}
func (*Error) sealed()           {}
func (*Input) sealed()           {}
func (*StateUpdate) sealed()     {}
func (*LevelData) sealed()       {}
func (*LevelVote) sealed()       {}
func (*RestartRequest) sealed()  {}
func (*RestartOffer) sealed()    {}
func (*RestartResponse) sealed() {}

// Inbound 客户端是否允许发送类型为 k 的消息
func Inbound(k Kind) bool {
	switch k {
	case KindJoin, KindInput, KindChat, KindLevelVote, KindRestartRequest, KindRestartResponse:
		return true
	}
	return false
}
