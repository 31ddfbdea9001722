package respond

// CounterpartRespond 可对话对象目录响应
// (GET /tutor/public, /tutor/assigned-students, /student/assigned-tutors)
// 使用位置:
//   - internal/api/directory.go
//   - internal/service/conversation/store.go: LoadDirectory
type CounterpartRespond struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}
