package memory

import "context"

// TxManager выполняет функции атомарно поверх Store
type TxManager struct {
	store *Store
}

// Do выполняет fn в транзакции; ошибка или паника откатывают все изменения
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable совпадает с Do: транзакции хранилища и так выполняются строго по очереди
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly совпадает с Do
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.store

	// Вложенный вызов присоединяется к внешней транзакции
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	snapshot := s.data.clone()

	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{store: s}, true)); err != nil {
		s.data = snapshot
		return err
	}

	return nil
}
