package sqlinline

const QEnqueueTask = `--sql 53535dd2-7c59-45db-ab38-9dbf226ce138
insert into alt_text_tasks (id, asset_id, site_id, force, status)
values ($1, $2, $3, $4, 'QUEUED');
`

const QClaimNextTask = `--sql e3d52343-a08a-4145-962d-39d65ab65a75
with next_task as (
    select id
    from alt_text_tasks
    where status = 'QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update alt_text_tasks
    set status = 'RUNNING', updated_at = now()
    where id in (select id from next_task)
    returning id, asset_id, site_id, force
)
select * from updated;
`

const QFinishTask = `--sql 1f64b7b8-e22c-4231-89c7-3f819d4f9391
update alt_text_tasks
set status = $2, error = $3, updated_at = now()
where id = $1;
`
