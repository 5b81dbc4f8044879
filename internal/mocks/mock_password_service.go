package mocks

// MockPasswordService implements domain.PasswordService for testing.
type MockPasswordService struct {
	HashFunc        func(password string) (string, error)
	VerifyFunc      func(hashedPassword, password string) bool
	DummyVerifyFunc func(password string)

	// DummyVerifyCalls counts anti-enumeration comparisons, so tests can
	// assert the dummy compare ran for unknown emails.
	DummyVerifyCalls int
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors.
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

func (m *MockPasswordService) DummyVerify(password string) {
	m.DummyVerifyCalls++
	if m.DummyVerifyFunc != nil {
		m.DummyVerifyFunc(password)
	}
}
