package class

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Class struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ClassName  string               `json:"className" bson:"className"`
	TeacherID  primitive.ObjectID   `json:"teacherId" bson:"teacherId"`
	StudentIDs []primitive.ObjectID `json:"studentIds" bson:"studentIds"`
}

type CreateClassRequest struct {
	ClassName string `json:"className" binding:"required"`
}

type AddStudentRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// Response is the API view of a class, with ObjectIDs rendered as hex.
type Response struct {
	ID         string   `json:"_id"`
	ClassName  string   `json:"className"`
	TeacherID  string   `json:"teacherId"`
	StudentIDs []string `json:"studentIds"`
}

// Member is an enrolled student as returned by the populated class view.
type Member struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PopulatedResponse is the class view with the roster resolved to users.
type PopulatedResponse struct {
	ID        string    `json:"_id"`
	ClassName string    `json:"className"`
	TeacherID string    `json:"teacherId"`
	Students  []*Member `json:"students"`
}

func (c *Class) ToResponse() *Response {
	studentIDs := make([]string, 0, len(c.StudentIDs))
	for _, sid := range c.StudentIDs {
		studentIDs = append(studentIDs, sid.Hex())
	}

	return &Response{
		ID:         c.ID.Hex(),
		ClassName:  c.ClassName,
		TeacherID:  c.TeacherID.Hex(),
		StudentIDs: studentIDs,
	}
}

// HasStudent reports whether the given student is enrolled.
func (c *Class) HasStudent(studentID primitive.ObjectID) bool {
	for _, sid := range c.StudentIDs {
		if sid == studentID {
			return true
		}
	}
	return false
}
