package session

import (
	"testing"
	"time"

	myjwt "tutor_chat_client/pkg/util/jwt"
)

func TestNewFromToken(t *testing.T) {
	myjwt.Init("session-test-secret")

	token, err := myjwt.GenerateAccessToken("stu_alice", "student", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := New(token)
	if err != nil {
		t.Fatal(err)
	}
	if sess.UserId != "stu_alice" || sess.Role != RoleStudent || sess.Token != token {
		t.Errorf("会话身份解析不正确: %+v", sess)
	}
}

func TestNewRejectsBadTokens(t *testing.T) {
	myjwt.Init("session-test-secret")

	if _, err := New(""); err == nil {
		t.Error("空 Token 应被拒绝")
	}
	if _, err := New("not-a-jwt"); err == nil {
		t.Error("非 JWT 格式应被拒绝")
	}

	expired, err := myjwt.GenerateAccessToken("stu_alice", "student", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(expired); err == nil {
		t.Error("过期 Token 应被拒绝")
	}

	badRole, err := myjwt.GenerateAccessToken("stu_alice", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(badRole); err == nil {
		t.Error("未知角色应被拒绝")
	}
}

func TestRoleCounterpart(t *testing.T) {
	if RoleStudent.Counterpart() != RoleTutor || RoleTutor.Counterpart() != RoleStudent {
		t.Error("对端角色映射不正确")
	}
}
