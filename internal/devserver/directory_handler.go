package devserver

import (
	"tutor_chat_client/internal/dto/respond"

	"github.com/gin-gonic/gin"
)

func toCounterparts(users []*User) []respond.CounterpartRespond {
	out := make([]respond.CounterpartRespond, 0, len(users))
	for _, u := range users {
		out = append(out, respond.CounterpartRespond{
			Id:     u.Id,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: u.Avatar,
		})
	}
	return out
}

// publicTutorsHandler 公开导师目录
// GET /tutor/public
func (s *Server) publicTutorsHandler(c *gin.Context) {
	tutors := s.Store.Directory(func(u *User) bool {
		return u.Role == "tutor" && u.Public
	})
	handleSuccess(c, toCounterparts(tutors))
}

// assignedStudentsHandler 导师名下学生
// GET /tutor/assigned-students
func (s *Server) assignedStudentsHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	handleSuccess(c, toCounterparts(s.Store.AssignedStudents(ownerId)))
}

// assignedTutorsHandler 学生的指派导师
// GET /student/assigned-tutors
func (s *Server) assignedTutorsHandler(c *gin.Context) {
	ownerId, _ := currentUser(c)
	handleSuccess(c, toCounterparts(s.Store.AssignedTutors(ownerId)))
}
