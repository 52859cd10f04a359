package auth_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/almacen-api/pkg/jwt"
)

// userRepoFake doble en memoria de UserRepository, suficiente para auth.
type userRepoFake struct {
	mu    sync.Mutex
	users map[string]*entity.User // por email
}

var _ repository.UserRepository = (*userRepoFake)(nil)

func newUserRepoFake() *userRepoFake {
	return &userRepoFake{users: map[string]*entity.User{}}
}

func (f *userRepoFake) Create(user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *userRepoFake) GetByID(id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *userRepoFake) GetByEmail(email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *userRepoFake) Update(user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *userRepoFake) List(limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

var testJWT = auth.JWTConfig{Secret: "test-secret-key", ExpMinutes: 60, Issuer: "almacen-api-test"}

func TestRegisterUser_HasheaPassword(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)

	user, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123", Name: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmpleado, user.Role, "sin rol explícito queda como empleado")
	assert.Equal(t, "active", user.Status)

	stored, _ := repo.GetByEmail("ana@colegio.edu")
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash, "el password nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "otro456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "x@colegio.edu", Password: "secreto123", Role: "superadmin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConRolDelUsuario(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "bodega@colegio.edu", Password: "secreto123", Role: entity.RoleAlmacenista})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "bodega@colegio.edu", Password: "secreto123"})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	userID, role, err := pkgjwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, entity.RoleAlmacenista, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@colegio.edu", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@colegio.edu", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	stored, _ := repo.GetByEmail("ana@colegio.edu")
	stored.Status = "inactive"
	require.NoError(t, repo.Update(stored))

	_, err = uc.Login(dto.LoginRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListUsers_DevuelveRegistrados(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "bodega@colegio.edu", Password: "secreto123", Role: entity.RoleAlmacenista})
	require.NoError(t, err)

	users, err := uc.ListUsers(dto.PageRequest{})

	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateUser_CambiaRol(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	role := entity.RoleAlmacenista
	updated, err := uc.UpdateUser(registered.ID, dto.UpdateUserRequest{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAlmacenista, updated.Role)

	stored, _ := repo.GetByID(registered.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.RoleAlmacenista, stored.Role)
}

func TestUpdateUser_RolInvalido(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	role := "superadmin"
	_, err = uc.UpdateUser(registered.ID, dto.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateUser_DesactivarBloqueaLogin(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)
	registered, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	require.NoError(t, err)

	status := "inactive"
	_, err = uc.UpdateUser(registered.ID, dto.UpdateUserRequest{Status: &status})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@colegio.edu", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateUser_NoEncontrado(t *testing.T) {
	repo := newUserRepoFake()
	uc := auth.NewAuthUseCase(repo, testJWT)

	name := "Nadie"
	_, err := uc.UpdateUser("no-existe", dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
