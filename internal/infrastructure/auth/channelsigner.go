package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ChannelSigner produces Pusher-compatible private channel signatures:
// "<key>:<hex hmac-sha256(secret, socket_id:channel_name)>".
type ChannelSigner struct {
	key    string
	secret []byte
}

func NewChannelSigner(key, secret string) *ChannelSigner {
	return &ChannelSigner{key: key, secret: []byte(secret)}
}

func (s *ChannelSigner) Sign(socketID, channel string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(socketID + ":" + channel))
	return s.key + ":" + hex.EncodeToString(mac.Sum(nil))
}
