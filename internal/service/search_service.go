package service

import (
	"html"
	"log"
	"strings"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the Meilisearch indexes in sync with posts and student
// profiles and answers keyword queries against them.
type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
	IndexStudent(student *model.Student) error
	DeleteStudent(id string) error
	SearchPosts(query string, limit, offset int64) (meilisearch.Hits, error)
	SearchStudents(query string, limit, offset int64) (meilisearch.Hits, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	postSortable := []string{"created_at"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&postSortable); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}

	postFilterable := []string{"student_id", "media_type"}
	postFilterableInterface := make([]any, len(postFilterable))
	for i, v := range postFilterable {
		postFilterableInterface[i] = v
	}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&postFilterableInterface); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	studentFilterable := []string{"school_id", "sport", "graduation_year"}
	studentFilterableInterface := make([]any, len(studentFilterable))
	for i, v := range studentFilterable {
		studentFilterableInterface[i] = v
	}
	if _, err := s.client.Index("students").UpdateFilterableAttributes(&studentFilterableInterface); err != nil {
		log.Printf("Failed to update students filterable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliPostDoc struct {
	ID        string          `json:"id"`
	Caption   string          `json:"caption"`
	MediaType string          `json:"media_type"`
	StudentID string          `json:"student_id"`
	CreatedAt int64           `json:"created_at"`
	Student   meiliStudentRef `json:"student"`
}

type meiliStudentDoc struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Sport          string `json:"sport"`
	Position       string `json:"position"`
	GraduationYear int    `json:"graduation_year"`
	SchoolID       string `json:"school_id"`
	SchoolName     string `json:"school_name"`
}

type meiliStudentRef struct {
	FullName string `json:"full_name"`
	Sport    string `json:"sport"`
}

func (s *searchService) cleanForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexPost(post *model.Post) error {
	doc := meiliPostDoc{
		ID:        post.ID.String(),
		Caption:   s.cleanForIndex(post.Caption),
		MediaType: post.MediaType,
		StudentID: post.StudentID.String(),
		CreatedAt: post.CreatedAt.Unix(),
	}
	if post.Student != nil {
		doc.Student = meiliStudentRef{
			FullName: post.Student.FullName,
			Sport:    post.Student.Sport,
		}
	}

	task, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeletePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}

func (s *searchService) IndexStudent(student *model.Student) error {
	doc := meiliStudentDoc{
		ID:       student.ID.String(),
		FullName: student.FullName,
		Sport:    student.Sport,
		SchoolID: student.SchoolID.String(),
	}
	if student.Position != nil {
		doc.Position = *student.Position
	}
	if student.GraduationYear != nil {
		doc.GraduationYear = *student.GraduationYear
	}
	if student.School != nil {
		doc.SchoolName = student.School.Name
	}

	task, err := s.client.Index("students").AddDocuments([]meiliStudentDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed student %s, task id: %d", student.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteStudent(id string) error {
	_, err := s.client.Index("students").DeleteDocument(id)
	return err
}

func (s *searchService) SearchPosts(query string, limit, offset int64) (meilisearch.Hits, error) {
	return s.search("posts", query, limit, offset)
}

func (s *searchService) SearchStudents(query string, limit, offset int64) (meilisearch.Hits, error) {
	return s.search("students", query, limit, offset)
}

func (s *searchService) search(index, query string, limit, offset int64) (meilisearch.Hits, error) {
	resp, err := s.client.Index(index).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return resp.Hits, nil
}

func strPtr(s string) *string {
	return &s
}
