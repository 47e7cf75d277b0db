package sqlinline

const QSelectSettings = `--sql 1826254d-66d8-4791-adee-6da9ed5e8057
select coalesce(api_key, ''), coalesce(language, ''), generate_for_new_assets, updated_at
from alt_text_settings
where id = 1;
`

const QUpsertSettings = `--sql 32e8e3fe-3f67-474e-af89-44e17235b392
insert into alt_text_settings (id, api_key, language, generate_for_new_assets, updated_at)
values (1, $1, $2, $3, now())
on conflict (id) do update
set api_key = excluded.api_key,
    language = excluded.language,
    generate_for_new_assets = excluded.generate_for_new_assets,
    updated_at = now();
`
