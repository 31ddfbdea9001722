package api

import (
	"context"

	"tutor_chat_client/internal/dto/respond"
)

// GetPublicTutors 拉取公开导师目录
// GET /tutor/public
func (c *RestClient) GetPublicTutors(ctx context.Context) ([]respond.CounterpartRespond, error) {
	var list []respond.CounterpartRespond
	if err := c.get(ctx, "/tutor/public", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAssignedStudents 拉取导师名下的学生（导师端目录）
// GET /tutor/assigned-students
func (c *RestClient) GetAssignedStudents(ctx context.Context) ([]respond.CounterpartRespond, error) {
	var list []respond.CounterpartRespond
	if err := c.get(ctx, "/tutor/assigned-students", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAssignedTutors 拉取学生的指派导师（学生端目录）
// GET /student/assigned-tutors
func (c *RestClient) GetAssignedTutors(ctx context.Context) ([]respond.CounterpartRespond, error) {
	var list []respond.CounterpartRespond
	if err := c.get(ctx, "/student/assigned-tutors", &list); err != nil {
		return nil, err
	}
	return list, nil
}
